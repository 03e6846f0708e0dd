package service

import (
	"github.com/sangkips/tavern-api/pkg/notifier"
	"github.com/sangkips/tavern-api/pkg/realtime"
)

// Cache is the short-lived read cache in front of reports and catalog lists
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	DeletePrefix(prefix string)
}

const (
	cachePrefixProducts = "products:"
	cachePrefixReports  = "reports:"
)

// Signals groups the side channels a write fans out to once committed
type Signals struct {
	Broadcaster realtime.Broadcaster
	Publisher   notifier.Publisher
	Cache       Cache
}

func (s Signals) broadcast(events ...string) {
	if s.Broadcaster == nil {
		return
	}
	for _, event := range events {
		s.Broadcaster.Broadcast(event)
	}
}

func (s Signals) publish(enabled bool, event notifier.Event) {
	if !enabled || s.Publisher == nil {
		return
	}
	s.Publisher.Notify(event)
}

func (s Signals) invalidate(prefixes ...string) {
	if s.Cache == nil {
		return
	}
	for _, prefix := range prefixes {
		s.Cache.DeletePrefix(prefix)
	}
}
