package store

import (
	"encoding/json"
	"fmt"

	"mealsense/internal/crypto"
	"mealsense/internal/models"
)

// codec serializes accounts, sealing them when a cipher is configured.
type codec struct {
	cipher *crypto.EncryptionService
}

func (c codec) encode(a *models.Account) (payload string, encrypted bool, err error) {
	out := *a
	if out.FoodLog == nil {
		out.FoodLog = []models.MealRecord{}
	}
	raw, err := json.Marshal(&out)
	if err != nil {
		return "", false, fmt.Errorf("marshal account: %w", err)
	}
	if c.cipher == nil {
		return string(raw), false, nil
	}
	sealed, err := c.cipher.Encrypt(raw)
	if err != nil {
		return "", false, fmt.Errorf("encrypt account: %w", err)
	}
	return sealed, true, nil
}

func (c codec) decode(payload string, encrypted bool) (*models.Account, error) {
	raw := []byte(payload)
	if encrypted {
		if c.cipher == nil {
			return nil, fmt.Errorf("account is encrypted but no key is configured")
		}
		var err error
		if raw, err = c.cipher.Decrypt(payload); err != nil {
			return nil, fmt.Errorf("decrypt account: %w", err)
		}
	}
	var a models.Account
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("unmarshal account: %w", err)
	}
	return &a, nil
}
