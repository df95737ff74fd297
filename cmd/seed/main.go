package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistacare/clinic-api/internal/auth"
	"github.com/vistacare/clinic-api/internal/db"
)

// Seeds a development database: two clinic groups, staff accounts, the
// specialty catalog, availability blocks and a batch of patients. Every
// seeded account shares one password so the dataset is usable by hand.
const seedPassword = "changeme123"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	// Hash once; bcrypt at default cost is too slow to run per row.
	hash, err := auth.HashPassword(seedPassword, 0)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	s := &seeder{pool: pool, passwordHash: hash}
	run := context.Background()

	if err := s.seedSuperAdmin(run); err != nil {
		log.Fatalf("seed super admin: %v", err)
	}
	groupIDs, err := s.seedGroups(run, []string{"VistaCare Centro", "VistaCare Norte"})
	if err != nil {
		log.Fatalf("seed groups: %v", err)
	}
	specialtyIDs, err := s.seedSpecialties(run)
	if err != nil {
		log.Fatalf("seed specialties: %v", err)
	}

	for _, groupID := range groupIDs {
		if err := s.seedClinic(run, groupID, specialtyIDs); err != nil {
			log.Fatalf("seed clinic %s: %v", groupID, err)
		}
	}

	log.Println("seed complete")
}

type seeder struct {
	pool         *pgxpool.Pool
	passwordHash string
}

func (s *seeder) seedSuperAdmin(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, status, registered_at)
		VALUES ($1, 'Platform Admin', 'admin@vistacare.dev', $2, 'SUPER_ADMIN', 'active', now())
		ON CONFLICT (email) DO NOTHING
	`, uuid.New(), s.passwordHash)
	return err
}

func (s *seeder) seedGroups(ctx context.Context, names []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id := uuid.New()
		_, err := s.pool.Exec(ctx, `
			INSERT INTO groups (id, name, status, created_at, updated_at)
			VALUES ($1, $2, 'ACTIVE', now(), now())
		`, id, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Printf("groups seeded: %d", len(ids))
	return ids, nil
}

func (s *seeder) seedSpecialties(ctx context.Context) ([]uuid.UUID, error) {
	names := []string{
		"Ophthalmology",
		"Retina",
		"Glaucoma",
		"Cornea",
		"Pediatric Ophthalmology",
		"Oculoplastics",
	}

	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id := uuid.New()
		_, err := s.pool.Exec(ctx, `
			INSERT INTO specialties (id, name, created_at)
			VALUES ($1, $2, now())
			ON CONFLICT (name) DO NOTHING
		`, id, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Printf("specialties seeded: %d", len(ids))
	return ids, nil
}

// seedClinic fills one group with staff, schedules and patient records.
func (s *seeder) seedClinic(ctx context.Context, groupID uuid.UUID, specialtyIDs []uuid.UUID) error {
	const (
		doctorCount  = 5
		patientCount = 50
	)

	doctorIDs := make([]uuid.UUID, 0, doctorCount)
	for i := 0; i < doctorCount; i++ {
		id, err := s.seedUser(ctx, groupID, "DOCTOR")
		if err != nil {
			return err
		}

		_, err = s.pool.Exec(ctx, `
			INSERT INTO doctors (user_id, license_number, tenant_id, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, fmt.Sprintf("LIC-%06d", gofakeit.Number(100000, 999999)), groupID)
		if err != nil {
			return err
		}

		spec := specialtyIDs[gofakeit.Number(0, len(specialtyIDs)-1)]
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO doctor_specialties (doctor_id, specialty_id)
			VALUES ($1, $2)
		`, id, spec); err != nil {
			return err
		}

		doctorIDs = append(doctorIDs, id)
	}

	if _, err := s.seedUser(ctx, groupID, "ADMIN"); err != nil {
		return err
	}
	if _, err := s.seedUser(ctx, groupID, "RECEPTIONIST"); err != nil {
		return err
	}

	days := []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}
	for _, doctorID := range doctorIDs {
		for _, day := range days {
			// Morning and afternoon shifts in minutes since midnight.
			for _, window := range [][2]int{{8 * 60, 12 * 60}, {14 * 60, 18 * 60}} {
				_, err := s.pool.Exec(ctx, `
					INSERT INTO availability_blocks
						(id, doctor_id, day, start_min, end_min, slot_minutes,
						 max_per_block, status, tenant_id, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, 30, 8, 'active', $6, now(), now())
				`, uuid.New(), doctorID, day, window[0], window[1], groupID)
				if err != nil {
					return err
				}
			}
		}
	}

	for i := 0; i < patientCount; i++ {
		userID, err := s.seedUser(ctx, groupID, "PATIENT")
		if err != nil {
			return err
		}

		pressureR := gofakeit.Float64Range(10, 24)
		pressureL := gofakeit.Float64Range(10, 24)
		_, err = s.pool.Exec(ctx, `
			INSERT INTO patients
				(id, user_id, record_number, visual_acuity_right, visual_acuity_left,
				 ocular_pressure_right, ocular_pressure_left, status, tenant_id,
				 created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', $8, now(), now())
		`, uuid.New(), userID, fmt.Sprintf("REC-%s-%05d", groupID.String()[:4], i),
			"20/"+fmt.Sprint(gofakeit.Number(20, 60)),
			"20/"+fmt.Sprint(gofakeit.Number(20, 60)),
			pressureR, pressureL, groupID)
		if err != nil {
			return err
		}
	}

	log.Printf("clinic %s seeded: %d doctors, %d patients", groupID, doctorCount, patientCount)
	return nil
}

func (s *seeder) seedUser(ctx context.Context, groupID uuid.UUID, role string) (uuid.UUID, error) {
	id := uuid.New()
	phone := gofakeit.Phone()
	address := gofakeit.Address().Address
	birth := gofakeit.DateRange(
		time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC),
	)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users
			(id, name, email, password_hash, sex, birth_date, phone, address,
			 role, status, tenant_id, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active', $10, now())
	`, id, gofakeit.Name(), fmt.Sprintf("%s.%s@vistacare.dev", gofakeit.Username(), id.String()[:8]),
		s.passwordHash, gofakeit.RandomString([]string{"F", "M"}), birth, phone, address,
		role, groupID)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
