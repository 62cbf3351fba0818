package envelope

import (
	"fmt"
	"strings"
)

const (
	headerAnchor = "dataHeader="
	bodyAnchor   = "dataBody="
)

// Codec converts envelopes to and from a string representation.
type Codec interface {
	Encode(e Envelope) string
	Decode(s string) (Envelope, error)
}

// Text is the nested key=value dump codec:
//
//	Envelope(dataHeader=Header(name=<name>, type=<type>), dataBody=Body(payload=<payload>, checksum=<checksum>))
//
// Field values are written without escaping, so values containing
// ',', '{', '}', '(' or ')' do not survive a round trip. Decode accepts
// either bracket family, so map-style dumps such as
// {dataHeader={name=x, blockType=TYPE_A}, dataBody={dataBody=y}} decode too.
// The checksum is never reconstructed by Decode.
type Text struct{}

func (Text) Encode(e Envelope) string {
	return fmt.Sprintf(
		"Envelope(dataHeader=Header(name=%s, type=%s), dataBody=Body(payload=%s, checksum=%s))",
		e.Header.Name,
		e.Header.Type,
		e.Body.Payload,
		e.Body.Checksum,
	)
}

func (Text) Decode(s string) (Envelope, error) {
	headerRecord, err := extractRecord(s, headerAnchor)
	if err != nil {
		return Envelope{}, err
	}

	bodyRecord, err := extractRecord(s, bodyAnchor)
	if err != nil {
		return Envelope{}, err
	}

	header, err := decodeHeader(headerRecord)
	if err != nil {
		return Envelope{}, err
	}

	body, err := decodeBody(bodyRecord)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{Header: header, Body: body}, nil
}

func decodeHeader(record string) (Header, error) {
	name, ok := field(record, "name")
	if !ok {
		return Header{}, fmt.Errorf("%w: header missing name", ErrMalformedEnvelope)
	}
	if name == "" {
		return Header{}, fmt.Errorf("%w: header name empty", ErrMalformedEnvelope)
	}

	raw, ok := field(record, "type", "blockType")
	if !ok {
		return Header{}, fmt.Errorf("%w: header missing type", ErrMalformedEnvelope)
	}

	t, err := ParseBlockType(raw)
	if err != nil {
		return Header{}, fmt.Errorf("decode header %s: %w", name, err)
	}

	return Header{Name: name, Type: t}, nil
}

func decodeBody(record string) (Body, error) {
	payload, ok := field(record, "payload", "dataBody")
	if !ok {
		return Body{}, fmt.Errorf("%w: body missing payload", ErrMalformedEnvelope)
	}
	return Body{Payload: payload}, nil
}

// extractRecord returns the bracketed sub-record that follows the first
// occurrence of anchor, including its outer brackets.
func extractRecord(s, anchor string) (string, error) {
	name := strings.TrimSuffix(anchor, "=")

	start := strings.Index(s, anchor)
	if start == -1 {
		return "", fmt.Errorf("%w: %s not found", ErrMalformedEnvelope, name)
	}

	depth := 0
	open := -1
	for i := start + len(anchor); i < len(s); i++ {
		switch c := s[i]; {
		case isOpen(c):
			if depth == 0 {
				open = i
			}
			depth++
		case isClose(c):
			if depth == 0 {
				return "", fmt.Errorf("%w: %s closed before it opened", ErrMalformedEnvelope, name)
			}
			depth--
			if depth == 0 {
				return s[open : i+1], nil
			}
		case c == ',' && depth == 0:
			return "", fmt.Errorf("%w: %s has no record", ErrMalformedEnvelope, name)
		}
	}

	return "", fmt.Errorf("%w: %s record unterminated", ErrMalformedEnvelope, name)
}

// field returns the raw value of the first top-level key in record,
// trying each key in order.
func field(record string, keys ...string) (string, bool) {
	inner := record[1 : len(record)-1]

	for _, key := range keys {
		token := key + "="
		from := 0
		for {
			idx := strings.Index(inner[from:], token)
			if idx == -1 {
				break
			}
			idx += from

			if (idx == 0 || isBoundary(inner[idx-1])) && depthAt(inner, idx) == 0 {
				return scanValue(inner[idx+len(token):]), true
			}
			from = idx + len(token)
		}
	}

	return "", false
}

// scanValue reads up to the next top-level ',' or the end of the record.
func scanValue(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case isOpen(c):
			depth++
		case isClose(c):
			if depth == 0 {
				return s[:i]
			}
			depth--
		case c == ',' && depth == 0:
			return s[:i]
		}
	}
	return s
}

func depthAt(s string, end int) int {
	depth := 0
	for i := range end {
		switch {
		case isOpen(s[i]):
			depth++
		case isClose(s[i]):
			depth--
		}
	}
	return depth
}

func isOpen(c byte) bool {
	return c == '{' || c == '('
}

func isClose(c byte) bool {
	return c == '}' || c == ')'
}

func isBoundary(c byte) bool {
	return isOpen(c) || c == ',' || c == ' ' || c == '\t' || c == '\n'
}
