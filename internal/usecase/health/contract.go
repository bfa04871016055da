package health

import "context"

// DBPinger checks relational store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks history store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ChatChecker checks chat provider availability.
type ChatChecker interface {
	HealthCheck(ctx context.Context) error
}
