package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// DevGateway logs leads instead of delivering them. Used in development
// mode, mirroring a production webhook sink.
type DevGateway struct {
	logger *logrus.Logger
}

// NewDevGateway creates a logging-only notification gateway
func NewDevGateway(logger *logrus.Logger) *DevGateway {
	return &DevGateway{logger: logger}
}

// Notify logs the lead and reports success
func (g *DevGateway) Notify(ctx context.Context, lead LeadPayload) error {
	g.logger.WithFields(logrus.Fields{
		"lead_id":   lead.ID,
		"full_name": lead.FullName,
		"source":    lead.Source,
	}).Info("DEV notification: new lead")
	return nil
}

// Name returns the gateway name
func (g *DevGateway) Name() string {
	return "dev"
}
