// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"os"
	"testing"

	"github.com/diffeo/go-fablib/fim/fimtest"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic fim tests against PostgreSQL.
//
// This creates a PostgreSQL backend using an empty string as the
// connection string.  This means that, when you run "go test", you
// must set environment variables as described in
// http://www.postgresql.org/docs/current/static/libpq-envars.html;
// without PGHOST the suite is skipped.
type Suite struct {
	fimtest.Suite
}

// SetupSuite connects to the database.
func (s *Suite) SetupSuite() {
	if os.Getenv("PGHOST") == "" {
		s.T().Skip("PGHOST not set")
	}
	s.Suite.SetupSuite()
	orchestrator, err := NewWithClock("", s.Clock)
	s.Require().NoError(err)
	s.Orchestrator = orchestrator
}

// TestOrchestrator runs the fim generic tests.
func TestOrchestrator(t *testing.T) {
	suite.Run(t, &Suite{})
}
