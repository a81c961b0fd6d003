// Package mq publishes two-factor lifecycle events to the message broker.
package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/gomfa/internal/pkg/instrument"
	"github.com/shandysiswandi/gomfa/internal/pkg/messaging"
	"github.com/shandysiswandi/gomfa/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

// publish marshals the payload and sends it with the correlation ID header.
// The user ID doubles as the partition key so one account's events stay
// ordered on partitioned brokers.
func (m *Messaging) publish(ctx context.Context, spanName, destination string, userID int64, payload any) error {
	ctx, span := m.ins.Tracer("twofactor.outbound.mq").Start(ctx, spanName)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(strconv.FormatInt(userID, 10)),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishTwoFactorEnabled(ctx context.Context, msg event.TwoFactorEnabled) error {
	return m.publish(ctx, "PublishTwoFactorEnabled", event.DestinationTwoFactorEnabled, msg.UserID, msg)
}

func (m *Messaging) PublishTwoFactorActivated(ctx context.Context, msg event.TwoFactorActivated) error {
	return m.publish(ctx, "PublishTwoFactorActivated", event.DestinationTwoFactorActivated, msg.UserID, msg)
}

func (m *Messaging) PublishTwoFactorDisabled(ctx context.Context, msg event.TwoFactorDisabled) error {
	return m.publish(ctx, "PublishTwoFactorDisabled", event.DestinationTwoFactorDisabled, msg.UserID, msg)
}

func (m *Messaging) PublishTwoFactorBackupCodeUsed(ctx context.Context, msg event.TwoFactorBackupCodeUsed) error {
	return m.publish(ctx, "PublishTwoFactorBackupCodeUsed", event.DestinationTwoFactorBackupCodeUsed, msg.UserID, msg)
}

func (m *Messaging) PublishTwoFactorBackupCodesRotated(ctx context.Context, msg event.TwoFactorBackupCodesRotated) error {
	return m.publish(ctx, "PublishTwoFactorBackupCodesRotated", event.DestinationTwoFactorBackupCodesRotate, msg.UserID, msg)
}
