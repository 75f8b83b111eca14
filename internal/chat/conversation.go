// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/jeranaias/legalease-tui/internal/backend"
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrPending       = errors.New("waiting for the previous answer")
	ErrNoDocument    = errors.New("analyze a document before asking questions")
)

// ErrorPrefix starts the text of a model turn that failed.
const ErrorPrefix = "Sorry, an error occurred: "

// Sender sends chat requests. *backend.Client implements it.
type Sender interface {
	Chat(ctx context.Context, req backend.ChatRequest) (string, error)
}

// Conversation is a transcript grounded in one document.
type Conversation struct {
	Transcript *Transcript

	document string
	language string
	pending  *Request
}

// Request is an in-flight question.
type Request struct {
	// PlaceholderID is the model turn waiting for the reply.
	PlaceholderID string

	Payload backend.ChatRequest
}

// NewConversation creates a conversation about document in language.
func NewConversation(document, language string) *Conversation {
	return &Conversation{Transcript: NewTranscript(), document: document, language: language}
}

// Document returns the grounding document text.
func (c *Conversation) Document() string { return c.document }

// SetDocument replaces the grounding document. The transcript is kept.
func (c *Conversation) SetDocument(document string) { c.document = document }

// Language returns the chat language.
func (c *Conversation) Language() string { return c.language }

// SetLanguage changes the language used for later questions.
func (c *Conversation) SetLanguage(language string) { c.language = language }

// Pending reports whether a question awaits its answer.
func (c *Conversation) Pending() bool { return c.pending != nil }

// CanSubmit reports whether question may be sent now.
func (c *Conversation) CanSubmit(question string) bool {
	return c.pending == nil && strings.TrimSpace(question) != ""
}

// Begin appends the user turn and an empty model placeholder and returns
// the request to send. The request history excludes the new pair.
func (c *Conversation) Begin(question string) (*Request, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if c.pending != nil {
		return nil, ErrPending
	}
	if strings.TrimSpace(c.document) == "" {
		return nil, ErrNoDocument
	}

	history := c.Transcript.History()
	user := newTurn(RoleUser, question)
	placeholder := newTurn(RoleModel, "")
	c.Transcript.turns = append(c.Transcript.turns, user, placeholder)

	c.pending = &Request{
		PlaceholderID: placeholder.ID,
		Payload: backend.ChatRequest{
			Document: c.document,
			History:  history,
			Question: question,
			Language: c.language,
		},
	}
	return c.pending, nil
}

// Complete fills the placeholder of req with reply, or with an error
// message when err is non-nil.
func (c *Conversation) Complete(req *Request, reply string, err error) {
	if req == nil {
		return
	}
	if c.pending == req {
		c.pending = nil
	}
	if err != nil {
		c.Transcript.fill(req.PlaceholderID, ErrorPrefix+err.Error(), true)
		return
	}
	if strings.TrimSpace(reply) == "" {
		c.Transcript.fill(req.PlaceholderID, ErrorPrefix+"the answer was empty", true)
		return
	}
	c.Transcript.fill(req.PlaceholderID, reply, false)
}

// Ask sends question through s and records the outcome in the transcript.
// Backend failures become a transcript entry; the error is returned only
// for logging. Validation failures leave the transcript unchanged.
func (c *Conversation) Ask(ctx context.Context, s Sender, question string) (Turn, error) {
	req, err := c.Begin(question)
	if err != nil {
		return Turn{}, err
	}
	reply, sendErr := s.Chat(ctx, req.Payload)
	c.Complete(req, reply, sendErr)
	last, _ := c.Transcript.Last()
	return last, sendErr
}
