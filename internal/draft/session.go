// Package draft tracks invoice editing sessions and the OCR attempts made
// against them.
package draft

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"facturas/internal/domain"
	"facturas/internal/invoice"
	"facturas/internal/reconcile"
)

// maxNotices bounds the notices kept on a session.
const maxNotices = 20

// Attempt is one OCR extraction requested for a draft.
type Attempt struct {
	ID          uuid.UUID               `json:"attempt_id"`
	Status      domain.ExtractionStatus `json:"status"`
	ImageKey    string                  `json:"image_key,omitempty"`
	Result      *reconcile.Result       `json:"result,omitempty"`
	Error       string                  `json:"error,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
}

// Session is a draft being edited by one user. Revision increases on every
// change to the draft.
type Session struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	InvoiceID *int64          `json:"invoice_id,omitempty"`
	Draft     *invoice.Draft  `json:"draft"`
	Revision  int64           `json:"revision"`
	Attempts  []Attempt       `json:"attempts"`
	Notices   []domain.Notice `json:"notices"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewSession starts a session for d.
func NewSession(ownerID uuid.UUID, d *invoice.Draft, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Draft:     d,
		Attempts:  []Attempt{},
		Notices:   []domain.Notice{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Edit applies a user patch. Any pending extraction is superseded so its
// result cannot overwrite what the user just typed.
func (s *Session) Edit(p invoice.Patch, now time.Time) {
	if p.Empty() {
		return
	}
	s.Draft.Apply(p)
	s.supersedePending(now)
	s.touch(now)
}

// StartAttempt registers a new pending extraction, superseding older ones.
func (s *Session) StartAttempt(imageKey string, now time.Time) Attempt {
	s.supersedePending(now)
	a := Attempt{
		ID:        uuid.New(),
		Status:    domain.ExtractionPending,
		ImageKey:  imageKey,
		CreatedAt: now,
	}
	s.Attempts = append(s.Attempts, a)
	s.UpdatedAt = now
	return a
}

// Attempt returns the attempt with the given id.
func (s *Session) Attempt(id uuid.UUID) (*Attempt, error) {
	for i := range s.Attempts {
		if s.Attempts[i].ID == id {
			return &s.Attempts[i], nil
		}
	}
	return nil, domain.ErrAttemptNotFound
}

// Pending returns the attempt still waiting for a result, if any.
func (s *Session) Pending() *Attempt {
	for i := range s.Attempts {
		if s.Attempts[i].Status == domain.ExtractionPending {
			return &s.Attempts[i]
		}
	}
	return nil
}

// CompleteAttempt applies a reconciled extraction to the draft. Results for
// attempts that are no longer pending are dropped with ErrAttemptSuperseded
// and leave the draft untouched.
func (s *Session) CompleteAttempt(id uuid.UUID, res reconcile.Result, now time.Time) error {
	a, err := s.Attempt(id)
	if err != nil {
		return err
	}
	if a.Status != domain.ExtractionPending {
		return fmt.Errorf("attempt %s is %s: %w", id, a.Status, domain.ErrAttemptSuperseded)
	}

	s.Draft.Apply(res.Patch)
	a.Status = domain.ExtractionApplied
	a.Result = &res
	a.CompletedAt = &now

	s.notify(domain.Notice{
		Kind:    domain.NoticeSuccess,
		Title:   "Datos extraídos",
		Message: "Se completaron los campos leídos de la imagen",
	})
	for _, w := range res.Warnings {
		s.notify(domain.Notice{Kind: domain.NoticeInfo, Title: warningTitle(w.Code), Message: w.Message})
	}
	s.touch(now)
	return nil
}

// FailAttempt records an extraction error. The draft is left as it was.
func (s *Session) FailAttempt(id uuid.UUID, reason string, now time.Time) error {
	a, err := s.Attempt(id)
	if err != nil {
		return err
	}
	if a.Status != domain.ExtractionPending {
		return fmt.Errorf("attempt %s is %s: %w", id, a.Status, domain.ErrAttemptSuperseded)
	}
	a.Status = domain.ExtractionFailed
	a.Error = reason
	a.CompletedAt = &now
	s.notify(domain.Notice{Kind: domain.NoticeError, Title: "Error al procesar la imagen", Message: reason})
	s.UpdatedAt = now
	return nil
}

func (s *Session) supersedePending(now time.Time) {
	for i := range s.Attempts {
		if s.Attempts[i].Status == domain.ExtractionPending {
			s.Attempts[i].Status = domain.ExtractionSuperseded
			s.Attempts[i].CompletedAt = &now
		}
	}
}

func (s *Session) touch(now time.Time) {
	s.Revision++
	s.UpdatedAt = now
}

func (s *Session) notify(n domain.Notice) {
	s.Notices = append(s.Notices, n)
	if len(s.Notices) > maxNotices {
		s.Notices = s.Notices[len(s.Notices)-maxNotices:]
	}
}

func warningTitle(code string) string {
	switch code {
	case reconcile.WarnLowConfidence:
		return "Confianza baja"
	case reconcile.WarnSupplierMissing:
		return "Proveedor no encontrado"
	case reconcile.WarnIIBBCompensated:
		return "II.BB calculado"
	case reconcile.WarnEngineFallback:
		return "Motor OCR no disponible"
	default:
		return "Aviso"
	}
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	c := *s
	c.Draft = s.Draft.Clone()
	if s.InvoiceID != nil {
		id := *s.InvoiceID
		c.InvoiceID = &id
	}
	c.Attempts = append([]Attempt(nil), s.Attempts...)
	c.Notices = append([]domain.Notice(nil), s.Notices...)
	return &c
}
