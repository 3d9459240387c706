package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

func handlerOf(res *resty.Response) string {
	if res.Request == nil || res.Request.RawRequest == nil {
		return "response"
	}
	return res.Request.RawRequest.URL.Path
}

// DecodeJSON unmarshals the body of res into T.
func DecodeJSON[T any](res *resty.Response) (T, error) {
	var out T
	err := json.Unmarshal(res.Body(), &out)
	if err != nil {
		return out, fmt.Errorf("decode %s: %w", handlerOf(res), err)
	}
	return out, nil
}

// Document parses the body of res as an html fragment.
func Document(res *resty.Response) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", handlerOf(res), err)
	}
	return doc, nil
}

// Text returns the body of res without surrounding whitespace.
func Text(res *resty.Response) string {
	return strings.TrimSpace(res.String())
}

func isSuccess(text string) bool {
	switch strings.ToLower(text) {
	case "success", "ok", "true", "1":
		return true
	}
	return false
}

// ExpectSuccess checks for one of the plain text replies the vendor uses to
// acknowledge an update.
func ExpectSuccess(handler string, res *resty.Response) error {
	text := Text(res)
	fields := SplitRecord(text)
	if isSuccess(fields[0]) {
		return nil
	}
	if text == "" {
		text = "empty reply"
	}
	return &HandlerError{Handler: handler, Message: text}
}

// ExpectID reads the ID of a newly created object from a reply that is
// either the bare ID or "Success^^<id>".
func ExpectID(handler string, res *resty.Response) (int, error) {
	text := Text(res)
	fields := SplitRecord(text)
	raw := fields[0]
	if strings.EqualFold(raw, "success") && len(fields) > 1 {
		raw = fields[1]
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		if text == "" {
			text = "empty reply"
		}
		return 0, &HandlerError{Handler: handler, Message: text}
	}
	return id, nil
}
