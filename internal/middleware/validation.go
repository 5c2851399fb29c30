package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/cartai/negotiation-platform/internal/model"
)

// ValidateNegotiateRequest validates the multi-seller negotiation payload.
func ValidateNegotiateRequest(req *model.NegotiateRequest) error {
	if err := ValidateProduct(req.Product); err != nil {
		return err
	}
	if req.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if req.Budget <= 0 {
		return errors.New("budget must be positive")
	}
	if !req.Priority.Valid() {
		return errors.New("priority must be one of speed, carbon, price")
	}
	return nil
}

// ValidateNegotiateStoreRequest validates the single-seller payload.
func ValidateNegotiateStoreRequest(req *model.NegotiateStoreRequest) error {
	if err := ValidateProduct(req.Product); err != nil {
		return err
	}
	if req.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if req.Budget <= 0 {
		return errors.New("budget must be positive")
	}
	if !req.Priority.Valid() {
		return errors.New("priority must be one of speed, carbon, price")
	}
	if req.StoreID == "" {
		return errors.New("store_id is required")
	}
	return nil
}

// ValidateProduct validates a product description.
func ValidateProduct(product string) error {
	if len(product) == 0 {
		return errors.New("product cannot be empty")
	}
	if len(product) > 512 {
		return errors.New("product exceeds maximum length")
	}
	if !utf8.ValidString(product) {
		return errors.New("product must be valid UTF-8")
	}
	return nil
}

// ValidateConversationID validates a conversation ID.
func ValidateConversationID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid conversation ID format")
	}
	return nil
}

// ValidateTitle validates a conversation title.
func ValidateTitle(title string) error {
	if len(title) > 256 {
		return errors.New("title exceeds maximum length")
	}
	if !utf8.ValidString(title) {
		return errors.New("title must be valid UTF-8")
	}
	return nil
}
