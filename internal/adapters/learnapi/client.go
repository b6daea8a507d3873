package learnapi

// Package learnapi is the boundary client for the remote learning API that
// backs the front end: verification-code endpoints plus the exam, vocabulary,
// and grammar detail resources the pages render from.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "github.com/linguahub/lingua-ui/internal/errors"
)

// StatusEnvelope is the {statusCode, message} body the learning API wraps
// auth operations in. statusCode == 200 signals success regardless of the
// HTTP status line; anything else is a failure carrying message for display.
type StatusEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Exam is the exam detail resource.
type Exam struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationMins  int    `json:"durationMins"`
	QuestionCount int    `json:"questionCount"`
	Level         string `json:"level"`
}

// VocabularyTopic is the vocabulary topic detail resource.
type VocabularyTopic struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	WordCount int    `json:"wordCount"`
	Level     string `json:"level"`
}

// GrammarLesson is the grammar lesson detail resource.
type GrammarLesson struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Level   string `json:"level"`
	Content string `json:"content"`
}

// Config configures the API client.
type Config struct {
	BaseURL string
	Timeout time.Duration // default 10s
	// RetryCount enables resty's transport-level retries for GETs. Default 0.
	RetryCount int
}

// Client wraps the learning API behind typed methods. Transport failures map
// to Transient errors; envelope failures carry the API's message.
type Client struct {
	http *resty.Client
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("learnapi: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json")

	return &Client{http: rc}, nil
}

// CheckCode submits a verification code for a user.
// POST /auth/check-code {codeId, id}.
func (c *Client) CheckCode(ctx context.Context, codeID, userID string) error {
	return c.postStatus(ctx, "/auth/check-code", map[string]string{
		"codeId": codeID,
		"id":     userID,
	})
}

// ResendCode asks the API to issue and deliver a fresh verification code.
// POST /auth/resend-code {id, email}.
func (c *Client) ResendCode(ctx context.Context, userID, email string) error {
	return c.postStatus(ctx, "/auth/resend-code", map[string]string{
		"id":    userID,
		"email": email,
	})
}

func (c *Client) postStatus(ctx context.Context, path string, body map[string]string) error {
	var envelope StatusEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&envelope).
		SetError(&envelope).
		Post(path)
	if err != nil {
		return apperrors.Transient(err)
	}

	if envelope.StatusCode == http.StatusOK {
		return nil
	}

	message := envelope.Message
	if message == "" {
		message = fmt.Sprintf("learning API returned status %d", resp.StatusCode())
	}
	return apperrors.Validation(message)
}

// GetExam fetches an exam detail.
func (c *Client) GetExam(ctx context.Context, id string) (Exam, error) {
	var out Exam
	return out, c.getResource(ctx, "/exams/{id}", id, &out)
}

// GetVocabularyTopic fetches a vocabulary topic detail.
func (c *Client) GetVocabularyTopic(ctx context.Context, id string) (VocabularyTopic, error) {
	var out VocabularyTopic
	return out, c.getResource(ctx, "/vocabulary/{id}", id, &out)
}

// GetGrammarLesson fetches a grammar lesson detail.
func (c *Client) GetGrammarLesson(ctx context.Context, id string) (GrammarLesson, error) {
	var out GrammarLesson
	return out, c.getResource(ctx, "/grammar/{id}", id, &out)
}

func (c *Client) getResource(ctx context.Context, path, id string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(out).
		Get(path)
	if err != nil {
		return apperrors.Transient(err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return apperrors.NotFound("resource not found")
	case resp.IsError():
		return apperrors.Transient(fmt.Errorf("learning API returned %d for %s", resp.StatusCode(), path))
	default:
		return nil
	}
}
