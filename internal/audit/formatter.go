package audit

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"delivery_manager/internal/models"
)

// Entry is the normalized, display-ready form of one history event.
type Entry struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
	Time        time.Time `json:"time"`
}

// History payloads come from several producers that never agreed on
// field names. All known spellings live in these alias tables; adding a
// producer means adding aliases here, not touching Format.
var fieldAliases = map[string]string{
	"status":             "status",
	"statut":             "status",
	"delivery_fee":       "delivery fee",
	"fee":                "delivery fee",
	"frais":              "delivery fee",
	"frais de livraison": "delivery fee",
	"frais_livraison":    "delivery fee",
	"amount_paid":        "amount collected",
	"amount_collected":   "amount collected",
	"montant encaissé":   "amount collected",
	"montant_encaisse":   "amount collected",
	"amount_due":         "amount due",
	"montant":            "amount due",
	"montant_du":         "amount due",
	"phone":              "phone",
	"telephone":          "phone",
	"téléphone":          "phone",
	"quartier":           "quartier",
	"items":              "items",
	"articles":           "items",
	"produits":           "items",
	"carrier":            "carrier",
	"transporteur":       "carrier",
	"group":              "group",
	"groupe":             "group",
	"group_id":           "group",
}

var oldValueKeys = []string{"old_value", "ancienne_valeur", "from", "old", "previous", "avant"}
var newValueKeys = []string{"new_value", "nouvelle_valeur", "to", "new", "current", "après", "apres"}
var fieldKeys = []string{"field", "champ", "field_name"}
var actorKeys = []string{"actor", "user", "par", "by"}

var actionLabels = map[string]string{
	models.ActionCreated:           "record created",
	models.ActionUpdatedStatus:     "status changed",
	models.ActionUpdatedAmountPaid: "amount collected changed",
	models.ActionUpdatedFee:        "delivery fee changed",
}

var createdActions = map[string]bool{
	"created": true, "create": true, "creation": true, "création": true,
}

// Format converts one raw event into a display entry. It never panics:
// malformed or partial payloads degrade to the raw details string, and
// the event always stays on the timeline.
func Format(ev models.DeliveryEvent) Entry {
	entry := Entry{Actor: ev.Actor, Time: ev.CreatedAt}

	details := parseDetails(ev.Details)
	if details == nil {
		entry.Title = actionTitle(ev.Action)
		entry.Description = ev.Details
		return entry
	}

	if entry.Actor == "" {
		entry.Actor = firstString(details, actorKeys)
	}

	if createdActions[strings.ToLower(ev.Action)] {
		entry.Title = "record created"
		entry.Description = describeCreation(details)
		if entry.Description == "" {
			entry.Description = ev.Details
		}
		return entry
	}

	field := canonicalField(ev.Action, details)
	if field == "" {
		entry.Title = actionTitle(ev.Action)
		entry.Description = ev.Details
		return entry
	}

	oldVal := firstValue(details, oldValueKeys)
	newVal := firstValue(details, newValueKeys)
	entry.Title = field + " changed"
	entry.Description = describeChange(field, oldVal, newVal)
	if entry.Description == "" {
		entry.Description = ev.Details
	}
	return entry
}

// FormatTimeline formats a full history, oldest first.
func FormatTimeline(events []models.DeliveryEvent) []Entry {
	entries := make([]Entry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, Format(ev))
	}
	return entries
}

func parseDetails(raw string) map[string]interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw[0] != '{' {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

func actionTitle(action string) string {
	if label, ok := actionLabels[strings.ToLower(action)]; ok {
		return label
	}
	return action
}

// canonicalField resolves the changed field from an explicit field key
// or, failing that, from the action token itself (updated_status ->
// status).
func canonicalField(action string, details map[string]interface{}) string {
	for _, key := range fieldKeys {
		if raw := stringValue(details[key]); raw != "" {
			if canon, ok := fieldAliases[strings.ToLower(raw)]; ok {
				return canon
			}
			return strings.ToLower(raw)
		}
	}
	token := strings.ToLower(action)
	for _, prefix := range []string{"updated_", "update_", "changed_"} {
		token = strings.TrimPrefix(token, prefix)
	}
	token = strings.TrimSuffix(token, "_updated")
	if canon, ok := fieldAliases[token]; ok {
		return canon
	}
	return ""
}

func describeChange(field string, oldVal, newVal interface{}) string {
	oldStr := displayValue(field, oldVal)
	newStr := displayValue(field, newVal)
	switch {
	case oldStr != "" && newStr != "":
		return oldStr + " → " + newStr
	case newStr != "":
		return newStr
	case oldStr != "":
		return oldStr
	}
	return ""
}

// displayValue renders a raw value per the field's semantic type:
// statuses through the label table, monetary fields as FCFA.
func displayValue(field string, v interface{}) string {
	s := stringValue(v)
	if s == "" {
		return ""
	}
	if field == "status" {
		return models.StatusLabel(s)
	}
	if isMonetary(field) {
		if amount, err := strconv.ParseFloat(s, 64); err == nil {
			return models.FormatAmount(amount)
		}
	}
	return s
}

func isMonetary(field string) bool {
	return strings.Contains(field, "amount") || strings.Contains(field, "fee")
}

// describeCreation joins the fields present at creation in a fixed
// order, each formatted per its type. Multi-line item lists flatten to
// one comma-joined line.
func describeCreation(details map[string]interface{}) string {
	var parts []string
	if phone := firstString(details, []string{"phone", "telephone", "téléphone"}); phone != "" {
		parts = append(parts, phone)
	}
	if quartier := firstString(details, []string{"quartier"}); quartier != "" {
		parts = append(parts, quartier)
	}
	if items := firstString(details, []string{"items", "articles", "produits"}); items != "" {
		parts = append(parts, flattenLines(items))
	}
	if due := firstValue(details, []string{"amount_due", "montant", "montant_du"}); due != nil {
		if s := stringValue(due); s != "" {
			if amount, err := strconv.ParseFloat(s, 64); err == nil {
				parts = append(parts, models.FormatAmount(amount))
			} else {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " · ")
}

func flattenLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	var kept []string
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, ", ")
}

func firstValue(details map[string]interface{}, keys []string) interface{} {
	for _, key := range keys {
		if v, ok := details[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(details map[string]interface{}, keys []string) string {
	return stringValue(firstValue(details, keys))
}

// stringValue renders any JSON scalar; structured values are ignored
// rather than dumped.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
