package audit

import (
	"testing"
	"time"

	"delivery_manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventTime = time.Date(2026, 8, 19, 11, 0, 0, 0, time.UTC)

func TestFormatStatusChangeAcrossProducerAliases(t *testing.T) {
	// Three producers, three key vocabularies, one canonical output.
	cases := []string{
		`{"field":"status","old_value":"pending","new_value":"delivered"}`,
		`{"champ":"Statut","ancienne_valeur":"pending","nouvelle_valeur":"delivered"}`,
		`{"field":"status","from":"pending","to":"delivered"}`,
	}
	for _, details := range cases {
		entry := Format(models.DeliveryEvent{
			Action:    "updated_status",
			Details:   details,
			CreatedAt: eventTime,
		})
		assert.Equal(t, "status changed", entry.Title, details)
		assert.Equal(t, "En cours → Livré", entry.Description, details)
		assert.Equal(t, eventTime, entry.Time)
	}
}

func TestFormatFieldResolvedFromActionToken(t *testing.T) {
	// No explicit field key: the action tag carries it.
	entry := Format(models.DeliveryEvent{
		Action:  "updated_status",
		Details: `{"old_value":"pending","new_value":"client_absent_dla"}`,
	})
	assert.Equal(t, "status changed", entry.Title)
	assert.Equal(t, "En cours → Client absent (Douala)", entry.Description)
}

func TestFormatMonetaryFieldsAsCurrency(t *testing.T) {
	entry := Format(models.DeliveryEvent{
		Action:  "updated_amount_paid",
		Details: `{"field":"amount_paid","old_value":1000,"new_value":5000}`,
	})
	assert.Equal(t, "amount collected changed", entry.Title)
	assert.Equal(t, "1 000 FCFA → 5 000 FCFA", entry.Description)

	entry = Format(models.DeliveryEvent{
		Action:  "updated_delivery_fee",
		Details: `{"field":"Frais de livraison","old_value":"1500","new_value":"2000"}`,
	})
	assert.Equal(t, "delivery fee changed", entry.Title)
	assert.Equal(t, "1 500 FCFA → 2 000 FCFA", entry.Description)
}

func TestFormatSingleSidedChange(t *testing.T) {
	entry := Format(models.DeliveryEvent{
		Action:  "updated_status",
		Details: `{"field":"status","new_value":"delivered"}`,
	})
	assert.Equal(t, "Livré", entry.Description)
}

func TestFormatCreation(t *testing.T) {
	entry := Format(models.DeliveryEvent{
		Action:  "created",
		Details: `{"phone":"0650000001","quartier":"Déido","items":"2x savon\n1x huile","amount_due":15000}`,
	})
	assert.Equal(t, "record created", entry.Title)
	assert.Equal(t, "0650000001 · Déido · 2x savon, 1x huile · 15 000 FCFA", entry.Description)
}

func TestFormatCreationWithPartialFields(t *testing.T) {
	entry := Format(models.DeliveryEvent{
		Action:  "created",
		Details: `{"phone":"0650000001"}`,
	})
	assert.Equal(t, "0650000001", entry.Description)
}

func TestFormatActorFallsBackToPayload(t *testing.T) {
	entry := Format(models.DeliveryEvent{
		Action:  "updated_status",
		Details: `{"field":"status","old_value":"pending","new_value":"delivered","par":"Brice"}`,
	})
	assert.Equal(t, "Brice", entry.Actor)

	// The event's own attribution wins when present.
	entry = Format(models.DeliveryEvent{
		Action:  "updated_status",
		Actor:   "Admin",
		Details: `{"field":"status","old_value":"pending","new_value":"delivered","par":"Brice"}`,
	})
	assert.Equal(t, "Admin", entry.Actor)
}

func TestFormatDegradesToRawString(t *testing.T) {
	cases := []struct {
		name    string
		event   models.DeliveryEvent
		title   string
		details string
	}{
		{
			name:    "plain string details",
			event:   models.DeliveryEvent{Action: "updated_status", Details: "statut passé à livré"},
			title:   "status changed",
			details: "statut passé à livré",
		},
		{
			name:    "malformed json",
			event:   models.DeliveryEvent{Action: "updated_status", Details: `{"field":"status",`},
			title:   "status changed",
			details: `{"field":"status",`,
		},
		{
			name:    "unknown action keeps raw tag",
			event:   models.DeliveryEvent{Action: "rebooted", Details: "x"},
			title:   "rebooted",
			details: "x",
		},
		{
			name:    "object without known keys",
			event:   models.DeliveryEvent{Action: "updated_status", Details: `{"foo":"bar"}`},
			title:   "status changed",
			details: `{"foo":"bar"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := Format(tc.event)
			assert.Equal(t, tc.title, entry.Title)
			assert.Equal(t, tc.details, entry.Description)
		})
	}
}

func TestFormatNeverPanics(t *testing.T) {
	junk := []string{
		"", "null", "[]", "123", `"quoted"`, "{", `{"old_value":{"nested":true}}`,
		`{"field":["status"],"old_value":null,"new_value":false}`,
	}
	for _, details := range junk {
		require.NotPanics(t, func() {
			entry := Format(models.DeliveryEvent{Action: "updated_status", Details: details})
			assert.NotEmpty(t, entry.Title)
		}, "details=%q", details)
	}
}

func TestFormatTimelinePreservesEveryEvent(t *testing.T) {
	events := []models.DeliveryEvent{
		{Action: "created", Details: `{"phone":"0650000001"}`},
		{Action: "updated_status", Details: "garbage"},
		{Action: "updated_status", Details: `{"field":"status","old_value":"pending","new_value":"delivered"}`},
	}
	entries := FormatTimeline(events)
	require.Len(t, entries, 3, "malformed events stay on the timeline")
}
