package journal

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/BruksfildServices01/mood-journal/internal/models"
)

const (
	MusicMaxLength = 200

	minInt32 = math.MinInt32
	maxInt32 = math.MaxInt32
)

const NonFieldErrors = "non_field_errors"

const (
	msgRequired = "This field is required."
	msgNull     = "This field may not be null."
	msgBlank    = "This field may not be blank."
	msgInteger  = "A valid integer is required."
	msgNumber   = "A valid number is required."
	msgString   = "Not a valid string."
	msgPK       = "Incorrect type. Expected pk value."
)

// Input holds the writable Log fields present in a request body. A nil
// pointer means the field was not supplied; UserSet distinguishes an explicit
// "user": null from an absent key.
type Input struct {
	UserID     *uint
	UserSet    bool
	Mood       *int
	SleepHours *float64
	Music      *string
	Social     *int
}

type Field struct {
	Name     string
	Required bool
	// Apply decodes and validates raw, storing the value in in. The returned
	// string is the field message, empty on success.
	Apply func(raw json.RawMessage, in *Input) string
}

// Fields lists every writable Log attribute. id and created_at are read-only
// and silently ignored in request bodies.
var Fields = []Field{
	{Name: "user", Apply: applyUser},
	{Name: "mood", Required: true, Apply: applyMood},
	{Name: "sleep_hours", Required: true, Apply: applySleepHours},
	{Name: "music", Required: true, Apply: applyMusic},
	{Name: "social", Required: true, Apply: applySocial},
}

// ParseInput decodes a JSON object body. With partial set, required fields
// may be omitted (PATCH semantics).
func ParseInput(body []byte, partial bool) (Input, error) {
	var in Input

	var raw map[string]json.RawMessage
	if len(bytes.TrimSpace(body)) == 0 {
		raw = map[string]json.RawMessage{}
	} else if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return in, NewValidationError(NonFieldErrors, "Invalid data. Expected a JSON object.")
	}

	verr := &ValidationError{}
	for _, f := range Fields {
		value, ok := raw[f.Name]
		if !ok {
			if f.Required && !partial {
				verr.Add(f.Name, msgRequired)
			}
			continue
		}
		if msg := f.Apply(value, &in); msg != "" {
			verr.Add(f.Name, msg)
		}
	}

	if !verr.Empty() {
		return Input{}, verr
	}
	return in, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeNumber(raw json.RawMessage) (json.Number, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || n == "" {
		return "", false
	}
	return n, true
}

// decodeInteger accepts JSON integers, integral floats such as 3.0 and
// numeric strings.
func decodeInteger(raw json.RawMessage) (int64, bool) {
	n, ok := decodeNumber(raw)
	if !ok {
		return 0, false
	}
	s := strings.TrimSpace(n.String())
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func integerField(raw json.RawMessage) (int, string) {
	if isNull(raw) {
		return 0, msgNull
	}
	v, ok := decodeInteger(raw)
	if !ok {
		return 0, msgInteger
	}
	if v > maxInt32 {
		return 0, "Ensure this value is less than or equal to " + strconv.Itoa(maxInt32) + "."
	}
	if v < minInt32 {
		return 0, "Ensure this value is greater than or equal to " + strconv.Itoa(minInt32) + "."
	}
	return int(v), ""
}

func applyUser(raw json.RawMessage, in *Input) string {
	in.UserSet = true
	if isNull(raw) {
		in.UserID = nil
		return ""
	}
	v, ok := decodeInteger(raw)
	if !ok || v <= 0 || v > math.MaxUint32 {
		return msgPK
	}
	id := uint(v)
	in.UserID = &id
	return ""
}

func applyMood(raw json.RawMessage, in *Input) string {
	v, msg := integerField(raw)
	if msg != "" {
		return msg
	}
	in.Mood = &v
	return ""
}

func applySocial(raw json.RawMessage, in *Input) string {
	v, msg := integerField(raw)
	if msg != "" {
		return msg
	}
	in.Social = &v
	return ""
}

func applySleepHours(raw json.RawMessage, in *Input) string {
	if isNull(raw) {
		return msgNull
	}
	n, ok := decodeNumber(raw)
	if !ok {
		return msgNumber
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(n.String()), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return msgNumber
	}
	in.SleepHours = &v
	return ""
}

func applyMusic(raw json.RawMessage, in *Input) string {
	if isNull(raw) {
		return msgNull
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return msgString
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return msgBlank
	}
	if utf8.RuneCountInString(s) > MusicMaxLength {
		return "Ensure this field has no more than " + strconv.Itoa(MusicMaxLength) + " characters."
	}
	in.Music = &s
	return ""
}

// NewLog builds a Log from a complete Input.
func (in Input) NewLog() *models.Log {
	l := &models.Log{UserID: in.UserID}
	in.apply(l)
	return l
}

func (in Input) apply(l *models.Log) {
	if in.Mood != nil {
		l.Mood = *in.Mood
	}
	if in.SleepHours != nil {
		l.SleepHours = *in.SleepHours
	}
	if in.Music != nil {
		l.Music = *in.Music
	}
	if in.Social != nil {
		l.Social = *in.Social
	}
}

// Changes returns the column updates for the supplied fields. It never
// contains id or created_at.
func (in Input) Changes() map[string]any {
	changes := map[string]any{}
	if in.UserSet {
		changes["user_id"] = in.UserID
	}
	if in.Mood != nil {
		changes["mood"] = *in.Mood
	}
	if in.SleepHours != nil {
		changes["sleep_hours"] = *in.SleepHours
	}
	if in.Music != nil {
		changes["music"] = *in.Music
	}
	if in.Social != nil {
		changes["social"] = *in.Social
	}
	return changes
}
