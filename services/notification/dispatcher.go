package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"freight-admin/apperrors"
	"freight-admin/logger"
	"freight-admin/models/shipment"
	shipmentTypes "freight-admin/types/shipment"
)

var ErrMissingRecipient = errors.New("shipment has no recipient email")

// Message is a rendered customer email.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html"`
}

// Channel delivers a rendered message.
type Channel interface {
	Send(ctx context.Context, msg Message) error
}

type content struct {
	subject  string
	headline string
	image    string
}

// statuses without an entry send nothing
var policy = map[shipment.ShipmentStatus]content{
	shipment.StatusAwaitingPickup: {
		subject:  "Seu pedido foi recebido! Código: %s",
		headline: "Seu pedido foi recebido!",
		image:    "/images/mail_recebido.png",
	},
	shipment.StatusInTransit: {
		subject:  "Seu pedido está a caminho! Código: %s",
		headline: "Seu pedido está em transporte!",
		image:    "/images/mail_transporte.png",
	},
	shipment.StatusDelivered: {
		subject:  "Seu pedido foi entregue! Código: %s",
		headline: "Seu pedido foi entregue!",
		image:    "/images/mail_entregue.png",
	},
}

// Dispatcher turns status changes into customer emails.
type Dispatcher struct {
	channel Channel
	siteURL string
}

func NewDispatcher(channel Channel, siteURL string) *Dispatcher {
	return &Dispatcher{channel: channel, siteURL: strings.TrimRight(siteURL, "/")}
}

// ShouldNotify reports whether entering s sends a message.
func ShouldNotify(s shipment.ShipmentStatus) bool {
	_, ok := policy[s]
	return ok
}

// Build renders the message for sh entering its current status.
// ok is false when the status does not notify.
func (d *Dispatcher) Build(sh *shipment.Shipment) (msg Message, ok bool, err error) {
	c, ok := policy[sh.Status]
	if !ok {
		return Message{}, false, nil
	}
	if sh.RecipientEmail == nil || strings.TrimSpace(*sh.RecipientEmail) == "" {
		return Message{}, true, ErrMissingRecipient
	}

	var body bytes.Buffer
	err = emailTemplate.Execute(&body, emailData{
		SiteURL:      d.siteURL,
		Headline:     c.headline,
		Image:        c.image,
		TrackingCode: sh.TrackingCode,
		TrackingURL:  fmt.Sprintf("%s/rastreio/%s", d.siteURL, sh.TrackingCode),
		Description:  sh.Description,
		Origin:       sh.Origin,
		Destination:  sh.DestinationAddress,
		Driver:       optionalID(sh.DriverID),
		Vehicle:      optionalID(sh.VehicleID),
	})
	if err != nil {
		return Message{}, true, fmt.Errorf("render email: %w", err)
	}

	return Message{
		To:       strings.TrimSpace(*sh.RecipientEmail),
		Subject:  fmt.Sprintf(c.subject, sh.TrackingCode),
		HTMLBody: body.String(),
	}, true, nil
}

// OnStatusChanged sends at most one message for the change.
func (d *Dispatcher) OnStatusChanged(ctx context.Context, change shipmentTypes.StatusChange) error {
	if !change.Notify || change.Shipment == nil {
		return nil
	}
	sh := change.Shipment
	msg, ok, err := d.Build(sh)
	if !ok {
		return nil
	}
	if err != nil {
		return err
	}

	if err := d.channel.Send(ctx, msg); err != nil {
		return apperrors.Upstream("notification", err)
	}
	logger.Info(fmt.Sprintf("Status email %q sent for shipment %s", sh.Status, sh.TrackingCode))
	return nil
}

func optionalID(id *uint) string {
	if id == nil {
		return "Não definido"
	}
	return fmt.Sprintf("#%d", *id)
}

// LogChannel writes messages to the application log instead of sending them.
type LogChannel struct{}

func (LogChannel) Send(_ context.Context, msg Message) error {
	logger.Info(fmt.Sprintf("Email to %s: %s", msg.To, msg.Subject))
	return nil
}
