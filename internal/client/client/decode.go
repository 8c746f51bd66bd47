package client

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// unwrap returns the payload of a successful response body. Envelopes
// ({"success":..., "data":...}) yield their data; anything else is the payload
// itself. An envelope that reports success=false is a failure even on 2xx.
func unwrap(body []byte, status int) (gjson.Result, error) {
	if len(body) == 0 {
		return gjson.Result{}, nil
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, newAPIError(ErrInvalidResponse, status, MsgInvalidJSON)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return root, nil
	}

	success := root.Get("success")
	if !success.Exists() {
		return root, nil
	}
	if !success.Bool() {
		msg := firstString(root, "message", "error")
		if msg == "" {
			msg = "Request failed"
		}
		return gjson.Result{}, newAPIError(ErrRequestFailed, status, msg)
	}
	if data := root.Get("data"); data.Exists() {
		return data, nil
	}
	return root, nil
}

// userPayload accepts either a bare user object or one nested under "user".
func userPayload(payload gjson.Result) gjson.Result {
	if u := payload.Get("user"); u.IsObject() {
		return u
	}
	return payload
}

// quoteList finds the quote array of a listing payload: a bare array or an
// object with a "quotes" array and optional "total". ok is false for any
// other shape.
func quoteList(payload gjson.Result) (quotes gjson.Result, total int, ok bool) {
	switch {
	case payload.IsArray():
		return payload, len(payload.Array()), true
	case payload.IsObject() && payload.Get("quotes").IsArray():
		quotes = payload.Get("quotes")
		total = int(payload.Get("total").Int())
		if total == 0 {
			total = len(quotes.Array())
		}
		return quotes, total, true
	default:
		return gjson.Result{}, 0, false
	}
}

// errorMessage extracts the server's message from a failed response body.
func errorMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		if msg := firstString(gjson.ParseBytes(body), "message", "error"); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

func decodeInto(payload gjson.Result, status int, v any) error {
	if err := json.Unmarshal([]byte(payload.Raw), v); err != nil {
		return &APIError{Message: MsgInvalidFormat, StatusCode: status, Err: fmt.Errorf("%w: %w", ErrInvalidResponse, err)}
	}
	return nil
}
