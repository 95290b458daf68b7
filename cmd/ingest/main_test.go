package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"gpx_tracker/internal/ingest"
)

func TestPrintReport(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	printReport(cmd, &ingest.Report{Outcomes: []ingest.Outcome{
		{Document: "a.gpx", Status: ingest.StatusImported, Routes: 2, Waypoints: 7},
		{Document: "b.gpx", Status: ingest.StatusFailed, Err: errors.New("bad route")},
	}})

	assert.Equal(t,
		"imported a.gpx (2 routes, 7 waypoints)\n"+
			"failed   b.gpx: bad route\n"+
			"imported=1 skipped=0 invalid=0 failed=1\n",
		out.String())
}

func TestPrintReportNil(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	printReport(cmd, nil)
	assert.Empty(t, out.String())
}

func TestUploadsFlag(t *testing.T) {
	cmd := newRootCmd()
	f := cmd.Flags().Lookup("uploads")
	if assert.NotNil(t, f) {
		assert.Equal(t, "", f.DefValue)
	}
}
