package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
)

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"message": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestWriteSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"id": "1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestWriteErrorTypedCode(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Product not found" {
		t.Fatalf("expected typed message surfaced, got %v", body)
	}
}

func TestWriteErrorUntypedFallsBackToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("database exploded"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "internal server error" {
		t.Fatalf("internal errors must not leak their message, got %v", body)
	}
}

func TestWriteErrorDetailsGatedByExposeFlag(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"field": "email"})

	SetExposeDetails(false)
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, err)
	var hidden map[string]any
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &hidden); decodeErr != nil {
		t.Fatalf("decode body: %v", decodeErr)
	}
	if _, ok := hidden["error"]; ok {
		t.Fatalf("details should be hidden when expose is off: %v", hidden)
	}

	SetExposeDetails(true)
	defer SetExposeDetails(false)
	rec = httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, err)
	var shown map[string]any
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &shown); decodeErr != nil {
		t.Fatalf("decode body: %v", decodeErr)
	}
	if _, ok := shown["error"]; !ok {
		t.Fatalf("expected details when expose is on: %v", shown)
	}
}
