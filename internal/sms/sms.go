package sms

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const codeTTL = 5 * time.Minute

var ErrCodeMismatch = errors.New("verification code mismatch")

// Sender delivers the verification message to the subscriber. The production
// gateway integration is out of scope; LogSender stands in for it.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSender writes the message to the log instead of an SMS gateway.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, phone, message string) error {
	s.log.Info().Str("phone", phone).Str("message", message).Msg("sms send")
	return nil
}

// Service issues and verifies login codes. Codes are stored bcrypt-hashed
// with a five-minute expiry and are single-use.
type Service struct {
	store   CodeStore
	sender  Sender
	devCode string
}

// NewService builds the verification service. A non-empty devCode pins every
// generated code to that value for local development.
func NewService(store CodeStore, sender Sender, devCode string) *Service {
	return &Service{store: store, sender: sender, devCode: devCode}
}

func (s *Service) RequestCode(ctx context.Context, phone string) error {
	code := s.devCode
	if code == "" {
		var err error
		code, err = generateCode()
		if err != nil {
			return err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, phone, string(hash), codeTTL); err != nil {
		return err
	}

	return s.sender.Send(ctx, phone, fmt.Sprintf("Your confirmation code: %s. Do not share it.", code))
}

// VerifyCode checks the submitted code against the stored hash and consumes
// it on success.
func (s *Service) VerifyCode(ctx context.Context, phone, code string) error {
	hash, err := s.store.Get(ctx, phone)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return ErrCodeMismatch
	}
	// single-use: drop the code once it verified
	_ = s.store.Delete(ctx, phone)
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
