package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"supplyrisk/internal/domain"
	"supplyrisk/internal/ports"
)

var _ ports.SupplierRepository = (*DB)(nil)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const supplierColumns = `id, name, business_poc_email, vendor_poc_email, primary_domain,
    additional_urls, security_rating, created_at, updated_at`

const serviceColumns = `id, supplier_id, description, business_unit,
    confidentiality, integrity_of_data, availability_requirement, integration_level_of_access,
    reputational_impact, regulatory_impact, financial_impact, customer_service_impact,
    materiality_rating, vendor_assessment_date, last_assessment_date, next_review_date,
    procurement_status, notification_status, dacf_status, state, created_at, updated_at`

func (db *DB) Insert(ctx context.Context, s domain.Supplier) (err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	rating, err := encodeRating(s.SecurityRating)
	if err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `
        INSERT INTO suppliers (`+supplierColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, s.ID, s.Name, s.BusinessPOCEmail, s.VendorPOCEmail, s.PrimaryDomain,
		nonNil(s.AdditionalURLs), rating, s.CreatedAt, s.UpdatedAt); err != nil {
		return err
	}
	return saveServices(ctx, tx, s)
}

func (db *DB) Get(ctx context.Context, id string) (domain.Supplier, bool, error) {
	return loadSupplier(ctx, db.Pool, id, false)
}

func (db *DB) List(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	out := []domain.Supplier{}
	index := map[string]int{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[s.ID] = len(out)
		out = append(out, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Pool.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY supplier_id, position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		supplierID, svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[supplierID]; ok {
			out[i].Services = append(out[i].Services, svc)
		}
	}
	return out, rows.Err()
}

// Mutate locks the supplier row, applies fn and writes the result back in one
// transaction.
func (db *DB) Mutate(ctx context.Context, id string, fn func(*domain.Supplier) error) (out domain.Supplier, err error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return out, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	s, found, err := loadSupplier(ctx, tx, id, true)
	if err != nil {
		return out, err
	}
	if !found {
		return out, fmt.Errorf("supplier %s: %w", id, domain.ErrNotFound)
	}
	if err = fn(&s); err != nil {
		return out, err
	}

	rating, err := encodeRating(s.SecurityRating)
	if err != nil {
		return out, err
	}
	if _, err = tx.Exec(ctx, `
        UPDATE suppliers
        SET name=$2, business_poc_email=$3, vendor_poc_email=$4, primary_domain=$5,
            additional_urls=$6, security_rating=$7, updated_at=$8
        WHERE id=$1
    `, s.ID, s.Name, s.BusinessPOCEmail, s.VendorPOCEmail, s.PrimaryDomain,
		nonNil(s.AdditionalURLs), rating, s.UpdatedAt); err != nil {
		return out, err
	}
	if err = saveServices(ctx, tx, s); err != nil {
		return out, err
	}
	return s, nil
}

func loadSupplier(ctx context.Context, q querier, id string, forUpdate bool) (domain.Supplier, bool, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	s, err := scanSupplier(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Supplier{}, false, nil
	}
	if err != nil {
		return domain.Supplier{}, false, err
	}

	rows, err := q.Query(ctx, `SELECT `+serviceColumns+` FROM services WHERE supplier_id = $1 ORDER BY position`, id)
	if err != nil {
		return domain.Supplier{}, false, err
	}
	defer rows.Close()
	for rows.Next() {
		_, svc, err := scanService(rows)
		if err != nil {
			return domain.Supplier{}, false, err
		}
		s.Services = append(s.Services, svc)
	}
	return s, true, rows.Err()
}

func scanSupplier(row pgx.Row) (domain.Supplier, error) {
	var s domain.Supplier
	var rating []byte
	err := row.Scan(&s.ID, &s.Name, &s.BusinessPOCEmail, &s.VendorPOCEmail, &s.PrimaryDomain,
		&s.AdditionalURLs, &rating, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	if len(rating) > 0 {
		var r domain.SecurityRating
		if err := json.Unmarshal(rating, &r); err != nil {
			return s, fmt.Errorf("decode rating of %s: %w", s.ID, err)
		}
		s.SecurityRating = &r
	}
	s.Services = []domain.Service{}
	s.CreatedAt, s.UpdatedAt = s.CreatedAt.UTC(), s.UpdatedAt.UTC()
	return s, nil
}

func scanService(row pgx.Row) (string, domain.Service, error) {
	var (
		supplierID                     string
		svc                            domain.Service
		scores                         domain.ScoreSet
		vendorDate, lastDate, nextDate *time.Time
	)
	err := row.Scan(&svc.ID, &supplierID, &svc.Description, &svc.BusinessUnit,
		&scores.Confidentiality, &scores.IntegrityOfData, &scores.AvailabilityRequirement, &scores.IntegrationLevelOfAccess,
		&scores.ReputationalImpact, &scores.RegulatoryImpact, &scores.FinancialImpact, &scores.CustomerServiceImpact,
		&svc.MaterialityRating, &vendorDate, &lastDate, &nextDate,
		&svc.ProcurementStatus, &svc.NotificationStatus, &svc.DACFStatus, &svc.State, &svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		return "", svc, err
	}
	svc.VendorAssessmentDate = derefDate(vendorDate)
	svc.LastAssessmentDate = derefDate(lastDate)
	svc.NextReviewDate = derefDate(nextDate)
	svc.CreatedAt, svc.UpdatedAt = svc.CreatedAt.UTC(), svc.UpdatedAt.UTC()
	svc, err = domain.RestoreService(svc, scores)
	return supplierID, svc, err
}

// saveServices upserts every service of s. Services are never removed.
func saveServices(ctx context.Context, q querier, s domain.Supplier) error {
	for i, svc := range s.Services {
		sc := svc.Scores()
		if _, err := q.Exec(ctx, `
            INSERT INTO services (`+serviceColumns+`, position, weighted_average, risk_level, review_frequency)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
                    $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
            ON CONFLICT (id) DO UPDATE SET
                description=EXCLUDED.description, business_unit=EXCLUDED.business_unit,
                confidentiality=EXCLUDED.confidentiality, integrity_of_data=EXCLUDED.integrity_of_data,
                availability_requirement=EXCLUDED.availability_requirement,
                integration_level_of_access=EXCLUDED.integration_level_of_access,
                reputational_impact=EXCLUDED.reputational_impact, regulatory_impact=EXCLUDED.regulatory_impact,
                financial_impact=EXCLUDED.financial_impact, customer_service_impact=EXCLUDED.customer_service_impact,
                materiality_rating=EXCLUDED.materiality_rating,
                vendor_assessment_date=EXCLUDED.vendor_assessment_date,
                last_assessment_date=EXCLUDED.last_assessment_date, next_review_date=EXCLUDED.next_review_date,
                procurement_status=EXCLUDED.procurement_status, notification_status=EXCLUDED.notification_status,
                dacf_status=EXCLUDED.dacf_status, state=EXCLUDED.state, updated_at=EXCLUDED.updated_at,
                weighted_average=EXCLUDED.weighted_average, risk_level=EXCLUDED.risk_level,
                review_frequency=EXCLUDED.review_frequency
        `, svc.ID, s.ID, svc.Description, svc.BusinessUnit,
			sc.Confidentiality, sc.IntegrityOfData, sc.AvailabilityRequirement, sc.IntegrationLevelOfAccess,
			sc.ReputationalImpact, sc.RegulatoryImpact, sc.FinancialImpact, sc.CustomerServiceImpact,
			string(svc.MaterialityRating), nullDate(svc.VendorAssessmentDate), nullDate(svc.LastAssessmentDate), nullDate(svc.NextReviewDate),
			string(svc.ProcurementStatus), string(svc.NotificationStatus), string(svc.DACFStatus), string(svc.State),
			svc.CreatedAt, svc.UpdatedAt,
			i, svc.WeightedAverage().InexactFloat64(), string(svc.RiskLevel()), string(svc.ReviewFrequency())); err != nil {
			return fmt.Errorf("save service %s: %w", svc.ID, err)
		}
	}
	return nil
}

func encodeRating(r *domain.SecurityRating) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefDate(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}
