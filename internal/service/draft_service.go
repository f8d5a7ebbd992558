package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"facturas/internal/domain"
	"facturas/internal/draft"
	"facturas/internal/invoice"
	"facturas/internal/port"
	"facturas/internal/validator"
)

// DraftService manages invoice editing sessions.
type DraftService interface {
	Create(ctx context.Context, ownerID uuid.UUID, fromInvoiceID *int64) (*draft.Session, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*draft.Session, error)
	Edit(ctx context.Context, ownerID, id uuid.UUID, p invoice.Patch) (*draft.Session, error)
	Validate(ctx context.Context, ownerID, id uuid.UUID) (*validator.Report, error)
	Submit(ctx context.Context, ownerID, id uuid.UUID) (*domain.Invoice, error)
	Discard(ctx context.Context, ownerID, id uuid.UUID) error
}

type draftService struct {
	store     port.DraftStore
	invoices  port.InvoiceRepository
	suppliers port.SupplierRepository
	engine    *validator.Engine
	log       zerolog.Logger
}

// NewDraftService creates a new DraftService implementation.
func NewDraftService(
	store port.DraftStore,
	invoices port.InvoiceRepository,
	suppliers port.SupplierRepository,
	engine *validator.Engine,
	log zerolog.Logger,
) DraftService {
	return &draftService{
		store:     store,
		invoices:  invoices,
		suppliers: suppliers,
		engine:    engine,
		log:       log,
	}
}

func (s *draftService) Create(ctx context.Context, ownerID uuid.UUID, fromInvoiceID *int64) (*draft.Session, error) {
	now := time.Now().UTC()
	d := invoice.NewDraft(now)
	if fromInvoiceID != nil {
		inv, err := s.invoices.GetByID(ctx, *fromInvoiceID)
		if err != nil {
			return nil, err
		}
		d = invoice.DraftFromInvoice(inv)
	}

	session := draft.NewSession(ownerID, d, now)
	session.InvoiceID = fromInvoiceID
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("creating draft: %w", err)
	}
	s.log.Debug().Str("draft_id", session.ID.String()).Msg("draft created")
	return session, nil
}

func (s *draftService) Get(ctx context.Context, ownerID, id uuid.UUID) (*draft.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, domain.ErrDraftNotFound
	}
	return session, nil
}

func (s *draftService) Edit(ctx context.Context, ownerID, id uuid.UUID, p invoice.Patch) (*draft.Session, error) {
	edit := InputPatch(p)
	return s.store.Update(ctx, id, func(session *draft.Session) error {
		if session.OwnerID != ownerID {
			return domain.ErrDraftNotFound
		}
		session.Edit(edit, time.Now().UTC())
		return nil
	})
}

func (s *draftService) Validate(ctx context.Context, ownerID, id uuid.UUID) (*validator.Report, error) {
	session, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.engine.Validate(ctx, session.Draft, extractionConfidence(session)), nil
}

// Submit validates the draft and persists it while holding the session, then
// discards the session.
func (s *draftService) Submit(ctx context.Context, ownerID, id uuid.UUID) (*domain.Invoice, error) {
	var saved *domain.Invoice
	_, err := s.store.Update(ctx, id, func(session *draft.Session) error {
		if session.OwnerID != ownerID {
			return domain.ErrDraftNotFound
		}
		if err := s.engine.Check(ctx, session.Draft); err != nil {
			return err
		}
		if _, err := s.suppliers.GetByID(ctx, *session.Draft.SupplierID); err != nil {
			return err
		}

		inv := session.Draft.ToInvoice()
		inv.CreatedBy = ownerID
		if key := lastImageKey(session); key != "" {
			inv.ImageKey = &key
		}

		if session.InvoiceID != nil {
			existing, err := s.invoices.GetByID(ctx, *session.InvoiceID)
			if err != nil {
				return err
			}
			inv.ID = existing.ID
			inv.CreatedBy = existing.CreatedBy
			if inv.ImageKey == nil {
				inv.ImageKey = existing.ImageKey
			}
			if inv.Status == domain.InvoiceStatusPaid {
				inv.PaymentDate = existing.PaymentDate
			}
			if err := s.invoices.Update(ctx, inv); err != nil {
				return fmt.Errorf("updating invoice: %w", err)
			}
		} else if err := s.invoices.Create(ctx, inv); err != nil {
			return fmt.Errorf("creating invoice: %w", err)
		}
		saved = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("draft_id", id.String()).Msg("failed to discard submitted draft")
	}
	s.log.Info().Int64("invoice_id", saved.ID).Str("draft_id", id.String()).Msg("draft submitted")
	return s.invoices.GetByID(ctx, saved.ID)
}

func (s *draftService) Discard(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func lastImageKey(session *draft.Session) string {
	for i := len(session.Attempts) - 1; i >= 0; i-- {
		if a := session.Attempts[i]; a.Status == domain.ExtractionApplied && a.ImageKey != "" {
			return a.ImageKey
		}
	}
	return ""
}

// extractionConfidence attributes the confidence of the last applied
// extraction to every field it filled in.
func extractionConfidence(session *draft.Session) map[string]float64 {
	for i := len(session.Attempts) - 1; i >= 0; i-- {
		a := session.Attempts[i]
		if a.Status != domain.ExtractionApplied || a.Result == nil {
			continue
		}
		conf, ok := a.Result.Confidence.Get()
		if !ok {
			return nil
		}
		out := map[string]float64{}
		for _, field := range patchedFields(a.Result.Patch) {
			out[field] = conf
		}
		return out
	}
	return nil
}

func patchedFields(p invoice.Patch) []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(p.Date.Set, "date")
	add(p.Type.Set, "type")
	add(p.Amount.Set, "amount")
	add(p.Amount105.Set, "amount_105")
	add(p.HasIIBB.Set, "has_ii_bb")
	add(p.VATAmount21.Set, "vat_amount_21")
	add(p.VATAmount105.Set, "vat_amount_105")
	add(p.TotalNeto.Set, "total_neto")
	add(p.IIBBAmount.Set, "ii_bb_amount")
	add(p.TotalAmount.Set, "total_amount")
	add(p.Status.Set, "status")
	add(p.SupplierID.Set, "supplierId")
	return fields
}
