package health

import (
	"context"
	"database/sql"
	"time"

	"salary-backend/internal/model"
)

const pingTimeout = 2 * time.Second

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Model    bool   `json:"model"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB    *sql.DB
	Model *model.Holder
}

// NewService constructs a new health service. db may be nil when running on
// in-memory repositories.
func NewService(db *sql.DB, holder *model.Holder) *Service {
	return &Service{DB: db, Model: holder}
}

// Status reports database reachability and whether a model is loaded. The
// service stays OK without a model; prediction endpoints report 503 instead.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory"}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			st.OK = false
			st.Database = "unreachable"
		} else {
			st.Database = "ok"
		}
	}
	if s.Model != nil {
		st.Model = s.Model.Info(ctx).Loaded
	}
	return st
}
