package model

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for account dates (YYYY/MM/DD).
const DateLayout = "2006/01/02"

// AmountFloor is the lowest value the review counter can reach.
// -1 means "ignore this account".
const AmountFloor = -1

// FieldBag is a raw store record: loosely typed, string keys.
type FieldBag = map[string]any

// Account represents one tracked profile within a single list.
type Account struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	Handle          string `json:"handle"`
	LastCheckedDate string `json:"lastCheckedDate"` // YYYY/MM/DD, "" = never checked
	AddedDate       string `json:"addedDate"`       // YYYY/MM/DD, "" = unknown
	Amount          string `json:"amount"`          // integer encoded as string
	Favorite        bool   `json:"favorite"`
	Deleted         bool   `json:"deleted"`
}

// AccountFromRecord normalizes a raw store record into an Account.
// Every field tolerates two historical key casings: the primary name
// (AccountName) wins over the legacy one (accountName); missing fields
// default to ""/false. Returns ok=false for records that are not usable
// at all (empty bag), which callers skip silently.
func AccountFromRecord(id string, bag FieldBag) (Account, bool) {
	if id == "" || bag == nil {
		return Account{}, false
	}

	return Account{
		ID:              id,
		DisplayName:     stringField(bag, "AccountName", "accountName"),
		Handle:          stringField(bag, "AccountID", "accountId"),
		LastCheckedDate: stringField(bag, "LastCheckedDate", "lastCheckedDate"),
		AddedDate:       stringField(bag, "AddedDate", "addedDate"),
		Amount:          stringField(bag, "Amount", "amount"),
		Favorite:        boolField(bag, "Favorite", "favorite"),
		Deleted:         boolField(bag, "Deleted", "deleted"),
	}, true
}

// Record converts the account back into a store field bag,
// always using the primary key names.
func (a Account) Record() FieldBag {
	return FieldBag{
		"AccountName":     a.DisplayName,
		"AccountID":       a.Handle,
		"LastCheckedDate": a.LastCheckedDate,
		"Amount":          a.Amount,
		"AddedDate":       a.AddedDate,
		"Favorite":        a.Favorite,
		"Deleted":         a.Deleted,
	}
}

// AmountValue parses the review counter, defaulting to 0 for empty or
// malformed values.
func (a Account) AmountValue() int {
	return ParseAmount(a.Amount)
}

// ParseAmount parses a review counter string, defaulting to 0.
func ParseAmount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ClampAmount enforces the counter floor.
func ClampAmount(v int) int {
	if v < AmountFloor {
		return AmountFloor
	}
	return v
}

// NewAccountParams holds caller-supplied fields for a new Account.
type NewAccountParams struct {
	DisplayName string
	Handle      string
	Amount      string // optional, defaults to "0"
	Favorite    bool
}

// NewAccount creates an Account with the given numeric id and both date
// fields set to today.
func NewAccount(id int, params NewAccountParams, today string) Account {
	amount := params.Amount
	if amount == "" {
		amount = "0"
	}

	return Account{
		ID:              strconv.Itoa(id),
		DisplayName:     params.DisplayName,
		Handle:          params.Handle,
		LastCheckedDate: today,
		AddedDate:       today,
		Amount:          amount,
		Favorite:        params.Favorite,
		Deleted:         false,
	}
}

// MaxNumericID returns the highest numeric id in the collection.
// Non-numeric ids count as 0; an empty collection yields 0.
func MaxNumericID(accounts []Account) int {
	max := 0
	for _, a := range accounts {
		n, err := strconv.Atoi(a.ID)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// Today returns the current local date in wire format.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ParseDate parses an account date tolerantly. The canonical layout is
// YYYY/MM/DD but historical records also carry dashed and timestamped
// variants. Returns ok=false for empty or unparseable input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	layouts := []string{
		DateLayout,
		"2006-01-02",
		"2006/01/02 15:04:05",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateEpoch returns the date as a unix timestamp for sorting.
// Empty and unparseable dates sort as epoch 0.
func DateEpoch(s string) int64 {
	t, ok := ParseDate(s)
	if !ok {
		return 0
	}
	return t.Unix()
}

func stringField(bag FieldBag, primary, legacy string) string {
	for _, key := range []string{primary, legacy} {
		if v, ok := bag[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func boolField(bag FieldBag, primary, legacy string) bool {
	for _, key := range []string{primary, legacy} {
		v, ok := bag[key]
		if !ok {
			continue
		}
		switch b := v.(type) {
		case bool:
			if b {
				return true
			}
		case string:
			if b == "true" {
				return true
			}
		}
	}
	return false
}
