package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"nexa-backend/models"
)

// csvHeader is the persisted column layout. paid was added after the first
// deployments, so readers must tolerate rows that stop at appointment_time.
var csvHeader = []string{
	"booking_id", "timestamp_utc", "status", "name", "email", "phone",
	"service", "appointment_date", "appointment_time", "paid",
}

// minCSVFields is the pre-paid schema width; shorter rows are malformed.
const minCSVFields = 9

// CSVLeadStore keeps the ledger in one flat CSV file. All mutations take the
// write lock and land via write-to-temp-then-rename, so readers never observe
// a half-written file and concurrent mutations cannot interleave.
type CSVLeadStore struct {
	path string
	mu   sync.RWMutex
}

func NewCSVLeadStore(path string) (*CSVLeadStore, error) {
	s := &CSVLeadStore{path: path}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureFileLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVLeadStore) ensureFileLocked() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat leads file: %w", err)
	}
	if err := s.replaceFileLocked(nil); err != nil {
		return err
	}
	log.Printf("📄 Created leads file %s", s.path)
	return nil
}

func (s *CSVLeadStore) Append(status models.LeadStatus, in models.LeadInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureFileLocked(); err != nil {
		return "", err
	}

	bookingID := uuid.NewString()
	lead := models.Lead{
		BookingID:       bookingID,
		CreatedAt:       time.Now().UTC(),
		Status:          status,
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		Service:         in.Service,
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open leads file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(leadToRecord(lead)); err != nil {
		return "", fmt.Errorf("append lead: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("append lead: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("sync leads file: %w", err)
	}

	log.Printf("📝 Wrote lead %s %s %s [%s]", bookingID, lead.AppointmentDate, lead.AppointmentTime, status)
	return bookingID, nil
}

func (s *CSVLeadStore) ReadAll() ([]models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readAllLocked()
}

func (s *CSVLeadStore) readAllLocked() ([]models.Lead, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open leads file: %w", err)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1 // rows may predate the paid column

	var leads []models.Lead
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// a stray quote in one hand-edited row only poisons that row
			log.Printf("⚠️  Skipping unparseable row in %s (line %d): %v", s.path, parseErr.Line, parseErr.Err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read leads file: %w", err)
		}
		if len(rec) > 0 && rec[0] == csvHeader[0] {
			continue // header
		}
		lead, ok := recordToLead(rec)
		if !ok {
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func (s *CSVLeadStore) UpdateStatus(bookingID string, status models.LeadStatus) (bool, error) {
	return s.mutate(bookingID, func(l *models.Lead) { l.Status = status })
}

func (s *CSVLeadStore) SetPaid(bookingID string, paid bool) (bool, error) {
	return s.mutate(bookingID, func(l *models.Lead) { l.Paid = paid })
}

// mutate is the read-all / patch / replace-all path shared by the in-place
// updates. The full rewrite is O(n) but keeps the file a plain CSV.
func (s *CSVLeadStore) mutate(bookingID string, patch func(*models.Lead)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.readAllLocked()
	if err != nil {
		return false, err
	}

	found := false
	for i := range leads {
		if leads[i].BookingID == bookingID {
			patch(&leads[i])
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	if err := s.replaceFileLocked(leads); err != nil {
		return false, err
	}
	return true, nil
}

// replaceFileLocked writes header+rows to a temp file in the same directory
// and renames it over the ledger, so a crash mid-write leaves the old file
// intact and readers only ever see a complete file.
func (s *CSVLeadStore) replaceFileLocked(leads []models.Lead) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "leads-*.csv")
	if err != nil {
		return fmt.Errorf("create temp leads file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write leads header: %w", err)
	}
	for _, lead := range leads {
		if err := w.Write(leadToRecord(lead)); err != nil {
			tmp.Close()
			return fmt.Errorf("write lead row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush leads file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp leads file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp leads file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace leads file: %w", err)
	}
	return nil
}

func leadToRecord(l models.Lead) []string {
	return []string{
		l.BookingID,
		l.CreatedAt.Format(time.RFC3339),
		string(l.Status),
		l.Name,
		l.Email,
		l.Phone,
		l.Service,
		l.AppointmentDate,
		l.AppointmentTime,
		strconv.FormatBool(l.Paid),
	}
}

func recordToLead(rec []string) (models.Lead, bool) {
	if len(rec) < minCSVFields || rec[0] == "" {
		return models.Lead{}, false
	}
	createdAt, _ := time.Parse(time.RFC3339, rec[1])
	lead := models.Lead{
		BookingID:       rec[0],
		CreatedAt:       createdAt,
		Status:          models.LeadStatus(rec[2]),
		Name:            rec[3],
		Email:           rec[4],
		Phone:           rec[5],
		Service:         rec[6],
		AppointmentDate: rec[7],
		AppointmentTime: rec[8],
	}
	// rows written before the paid column default to unpaid
	if len(rec) > 9 {
		lead.Paid = parseBool(rec[9])
	}
	return lead, true
}

func parseBool(s string) bool {
	switch s {
	case "true", "True", "1", "yes":
		return true
	}
	return false
}
