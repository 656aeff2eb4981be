// Package mimeutils locates and decodes the HTML body of a stored e-mail message.
package mimeutils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"fjacquet/ebill-csv/internal/fileutils"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/parsererror"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	mboxlib "github.com/emersion/go-mbox"
	"golang.org/x/text/encoding/unicode"
)

const (
	mediaTypeHTML   = "text/html"
	mediaTypeRFC822 = "message/rfc822"
	mboxSeparator   = "From "
	formatMessage   = "RFC 5322 e-mail message (.eml) or mbox"
	dispAttachment  = "attachment"
)

// Part is a flat view of one leaf MIME part.
type Part struct {
	ContentType string
	Disposition string
	Charset     string
	Body        []byte
	CharsetErr  error
	ReadErr     error

	// Standalone marks the body of a single-part message, which is used
	// whatever its disposition says.
	Standalone bool
}

// IsInlineHTML reports whether the part is a text/html part that is not an
// attachment, or is the whole body of a single-part message.
func (p Part) IsInlineHTML() bool {
	if p.ContentType != mediaTypeHTML {
		return false
	}
	return p.Standalone || !strings.Contains(strings.ToLower(p.Disposition), dispAttachment)
}

// Message is the outcome of extraction: the decoded primary HTML body plus
// the headers used downstream.
type Message struct {
	Subject string
	Date    time.Time
	HTML    string
}

// SelectHTMLPart returns the first inline text/html part in stored order.
func SelectHTMLPart(parts []Part) (Part, bool) {
	for _, p := range parts {
		if p.IsInlineHTML() {
			return p, true
		}
	}
	return Part{}, false
}

// Extractor reads message containers and returns their primary HTML body.
type Extractor struct {
	logger logging.Logger
}

// NewExtractor creates an Extractor. A nil logger falls back to the default logger.
func NewExtractor(logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Extractor{logger: logger}
}

// SetLogger replaces the extractor's logger.
func (e *Extractor) SetLogger(logger logging.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// ExtractFile loads the message stored at path. Files with a .mbox extension
// or starting with an mbox separator line are read as mailboxes.
func (e *Extractor) ExtractFile(path string) (*Message, error) {
	data, err := fileutils.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input message: %w", err)
	}

	isMbox := strings.EqualFold(filepath.Ext(path), ".mbox")
	msg, err := e.extract(data, isMbox)
	if err != nil {
		var formatErr *parsererror.InvalidFormatError
		if errors.As(err, &formatErr) {
			formatErr.FilePath = path
		}
		return nil, err
	}
	return msg, nil
}

// Extract reads one message container from r.
func (e *Extractor) Extract(r io.Reader) (*Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	return e.extract(data, false)
}

// ExtractHTMLFile returns the decoded HTML body of the message stored at path.
func (e *Extractor) ExtractHTMLFile(path string) (string, error) {
	msg, err := e.ExtractFile(path)
	if err != nil {
		return "", err
	}
	return msg.HTML, nil
}

// ExtractHTML returns the decoded HTML body of the message read from r.
func (e *Extractor) ExtractHTML(r io.Reader) (string, error) {
	msg, err := e.Extract(r)
	if err != nil {
		return "", err
	}
	return msg.HTML, nil
}

func (e *Extractor) extract(data []byte, isMbox bool) (*Message, error) {
	if isMbox || bytes.HasPrefix(data, []byte(mboxSeparator)) {
		return e.extractMbox(data)
	}
	return e.extractMessage(bytes.NewReader(data))
}

// extractMbox returns the first message of the mailbox that carries an HTML part.
func (e *Extractor) extractMbox(data []byte) (*Message, error) {
	reader := mboxlib.NewReader(bytes.NewReader(data))
	index := 0
	for {
		msgReader, err := reader.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &parsererror.InvalidFormatError{
				ExpectedFormat: formatMessage,
				Msg:            "malformed mbox",
				Err:            err,
			}
		}
		index++

		msg, err := e.extractMessage(msgReader)
		if err == nil {
			return msg, nil
		}
		if !errors.Is(err, parsererror.ErrNoHTMLPart) {
			e.logger.Warn("Skipping unreadable mailbox message",
				logging.F("message_index", index),
				logging.F(logging.FieldError, err))
		}
	}

	e.logger.Warn("No HTML part found in mailbox", logging.F(logging.FieldCount, index))
	return nil, parsererror.ErrNoHTMLPart
}

func (e *Extractor) extractMessage(r io.Reader) (*Message, error) {
	entity, err := message.Read(r)
	if entity == nil || (err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err)) {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: formatMessage,
			Msg:            "cannot read message header",
			Err:            err,
		}
	}

	msg := &Message{}
	header := mail.Header{Header: entity.Header}
	if subject, subjErr := header.Subject(); subjErr == nil {
		msg.Subject = subject
	}
	if date, dateErr := header.Date(); dateErr == nil {
		msg.Date = date
	}

	parts, err := collectParts(entity, err, true)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: formatMessage,
			Msg:            "malformed multipart body",
			Err:            err,
		}
	}

	part, ok := SelectHTMLPart(parts)
	if !ok {
		e.logger.Warn("No HTML part found in message",
			logging.F(logging.FieldSubject, msg.Subject),
			logging.F(logging.FieldCount, len(parts)))
		return nil, parsererror.ErrNoHTMLPart
	}
	if part.ReadErr != nil {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: formatMessage,
			Msg:            "cannot decode HTML part",
			Err:            part.ReadErr,
		}
	}

	msg.HTML = e.decodeText(part)
	return msg, nil
}

// collectParts flattens the entity into its leaf parts, depth-first in stored
// order, descending into attached message/rfc822 parts. A part with an unknown
// transfer encoding keeps its raw body.
func collectParts(entity *message.Entity, entityErr error, top bool) ([]Part, error) {
	if mr := entity.MultipartReader(); mr != nil {
		var parts []Part
		for {
			child, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				return parts, nil
			}
			if child == nil || (err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err)) {
				return nil, err
			}
			nested, err := collectParts(child, err, false)
			if err != nil {
				return nil, err
			}
			parts = append(parts, nested...)
		}
	}

	mediaType, params, _ := entity.Header.ContentType()
	part := Part{
		ContentType: strings.ToLower(strings.TrimSpace(mediaType)),
		Disposition: entity.Header.Get("Content-Disposition"),
		Charset:     params["charset"],
	}
	if message.IsUnknownCharset(entityErr) {
		part.CharsetErr = entityErr
	}
	part.Body, part.ReadErr = io.ReadAll(entity.Body)

	if part.ContentType == mediaTypeRFC822 && part.ReadErr == nil {
		if nested, ok := collectAttachedMessage(part.Body); ok {
			return append([]Part{part}, nested...), nil
		}
		return []Part{part}, nil
	}

	part.Standalone = top
	return []Part{part}, nil
}

// collectAttachedMessage reads body as an embedded message and returns its
// parts. An unreadable embedded message is left as an opaque part.
func collectAttachedMessage(body []byte) ([]Part, bool) {
	inner, err := message.Read(bytes.NewReader(body))
	if inner == nil || (err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err)) {
		return nil, false
	}
	parts, err := collectParts(inner, err, false)
	if err != nil {
		return nil, false
	}
	return parts, true
}

// decodeText returns the part body as text. Bodies whose declared charset
// could not be applied, or that are not valid UTF-8, are decoded as UTF-8
// with invalid sequences replaced by U+FFFD.
func (e *Extractor) decodeText(part Part) string {
	if part.CharsetErr == nil && utf8.Valid(part.Body) {
		return string(part.Body)
	}

	e.logger.Warn("Falling back to UTF-8 decoding of HTML part",
		logging.F(logging.FieldCharset, part.Charset),
		logging.F(logging.FieldError, part.CharsetErr))

	decoded, err := unicode.UTF8.NewDecoder().Bytes(part.Body)
	if err != nil {
		return strings.ToValidUTF8(string(part.Body), "\uFFFD")
	}
	return string(decoded)
}
