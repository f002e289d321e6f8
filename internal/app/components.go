package app

import (
	"github.com/stacklok/donation-coordinator/internal/events"
	"github.com/stacklok/donation-coordinator/internal/matching"
	"github.com/stacklok/donation-coordinator/internal/notify"
	"github.com/stacklok/donation-coordinator/internal/service"
	"github.com/stacklok/donation-coordinator/internal/store"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Store persists donors, homes, donations and notifications
	Store store.Store

	// Service provides the donation lifecycle business logic
	Service service.Service

	// Orchestrator runs matching sessions against the scoring service
	Orchestrator *matching.Orchestrator

	// Dispatcher turns committed transitions into notifications
	Dispatcher *notify.Dispatcher

	// Publisher emits lifecycle events
	Publisher events.Publisher
}
