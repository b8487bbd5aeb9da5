package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/config"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/mapper"
	"github.com/mudita/visita-api/internal/repository"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// ErrMalformedVoucherLink is returned when a public link payload cannot be parsed
var ErrMalformedVoucherLink = errors.New("malformed voucher link payload")

const (
	voucherLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	voucherDigits  = "0123456789"
)

// VoucherService issues voucher codes and builds the shareable handoff link
type VoucherService struct {
	voucherRepo *repository.VoucherRepository
	linkCfg     *config.PublicLinkConfig
	logger      *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewVoucherService creates a new VoucherService instance
func NewVoucherService(voucherRepo *repository.VoucherRepository, linkCfg *config.PublicLinkConfig, logger *zap.Logger) *VoucherService {
	return &VoucherService{
		voucherRepo: voucherRepo,
		linkCfg:     linkCfg,
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateCodes produces count codes of three uppercase letters followed
// by three digits. Codes are not reserved here; uniqueness is enforced by
// the primary key at insert time.
func (s *VoucherService) GenerateCodes(count int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes := make([]string, count)
	for i := 0; i < count; i++ {
		var b strings.Builder
		for j := 0; j < 3; j++ {
			b.WriteByte(voucherLetters[s.rng.Intn(len(voucherLetters))])
		}
		for j := 0; j < 3; j++ {
			b.WriteByte(voucherDigits[s.rng.Intn(len(voucherDigits))])
		}
		codes[i] = b.String()
	}
	return codes
}

// BuildLink assembles the public redemption link. The payload after the
// hash route is three pipe-separated segments: the url-encoded academy
// name, the url-encoded comma-joined codes and the issuance time in unix
// milliseconds.
func (s *VoucherService) BuildLink(academyName string, codes []string, createdAt time.Time) string {
	return fmt.Sprintf("%s/#/public-voucher/%s|%s|%d",
		strings.TrimSuffix(s.linkCfg.BaseURL, "/"),
		url.QueryEscape(academyName),
		url.QueryEscape(strings.Join(codes, ",")),
		createdAt.UnixMilli(),
	)
}

// LinkFor builds the full handoff payload for a visit's vouchers
func (s *VoucherService) LinkFor(academyName string, codes []string, createdAt time.Time) domain.VoucherLinkDTO {
	return domain.VoucherLinkDTO{
		AcademyName: academyName,
		Codes:       codes,
		URL:         s.BuildLink(academyName, codes, createdAt),
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt.Add(s.linkCfg.TTL()),
	}
}

// ResolvePublic decodes a link payload and computes its expiry. The expiry
// decision comes purely from the embedded timestamp: issued-at plus the
// configured lifetime, compared against now.
func (s *VoucherService) ResolvePublic(payload string, now time.Time) (*domain.PublicVoucherDTO, error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		// Some share channels re-encode the separator
		parts = strings.Split(payload, "%7C")
	}
	if len(parts) != 3 {
		return nil, ErrMalformedVoucherLink
	}

	name, err := url.QueryUnescape(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: bad academy name", ErrMalformedVoucherLink)
	}
	codesStr, err := url.QueryUnescape(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad codes", ErrMalformedVoucherLink)
	}
	millis, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp", ErrMalformedVoucherLink)
	}

	createdAt := time.UnixMilli(millis)
	expiresAt := createdAt.Add(s.linkCfg.TTL())

	codes := []string{}
	if codesStr != "" {
		codes = strings.Split(codesStr, ",")
	}

	return &domain.PublicVoucherDTO{
		AcademyName: name,
		Codes:       codes,
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
		Expired:     !now.Before(expiresAt),
	}, nil
}

// QRCodePNG renders a link as a QR code image
func (s *VoucherService) QRCodePNG(link string, size int) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

// ListByEvent returns every voucher issued for an event
func (s *VoucherService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.VoucherDTO, error) {
	vouchers, err := s.voucherRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	return mapper.ToVoucherDTOs(vouchers), nil
}

// ListByVisit returns the vouchers issued by one visit
func (s *VoucherService) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]domain.VoucherDTO, error) {
	vouchers, err := s.voucherRepo.ListByVisit(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	return mapper.ToVoucherDTOs(vouchers), nil
}
