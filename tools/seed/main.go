package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/zirdl/bunubon/database"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/repository"
	"github.com/zirdl/bunubon/services"
	"go.uber.org/zap"
)

// laUnion is the province's city and municipalities by congressional district.
var laUnion = []models.Municipality{
	{Name: "Bacnotan", District: "1st District"},
	{Name: "Balaoan", District: "1st District"},
	{Name: "Bangar", District: "1st District"},
	{Name: "Luna", District: "1st District"},
	{Name: "San Fernando City", District: "1st District"},
	{Name: "San Gabriel", District: "1st District"},
	{Name: "San Juan", District: "1st District"},
	{Name: "Santol", District: "1st District"},
	{Name: "Sudipen", District: "1st District"},
	{Name: "Agoo", District: "2nd District"},
	{Name: "Aringay", District: "2nd District"},
	{Name: "Bagulin", District: "2nd District"},
	{Name: "Bauang", District: "2nd District"},
	{Name: "Burgos", District: "2nd District"},
	{Name: "Caba", District: "2nd District"},
	{Name: "Naguilian", District: "2nd District"},
	{Name: "Pugo", District: "2nd District"},
	{Name: "Rosario", District: "2nd District"},
	{Name: "Santo Tomas", District: "2nd District"},
	{Name: "Tubao", District: "2nd District"},
}

type municipalityStore interface {
	List(ctx context.Context) ([]models.Municipality, error)
	Create(ctx context.Context, m *models.Municipality) error
}

type userStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

func main() {
	_ = godotenv.Load()

	var adminUser, adminPassword, province string
	var skipMunicipalities bool
	flag.StringVar(&adminUser, "admin", getEnv("SEED_ADMIN_USERNAME", "admin"), "admin username to create when missing")
	flag.StringVar(&adminPassword, "password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password (required to create the admin)")
	flag.StringVar(&province, "province", "La Union", "province stored on seeded municipalities")
	flag.BoolVar(&skipMunicipalities, "skip-municipalities", false, "only seed the admin account")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.ConnectPostgres(database.PostgresConfig{
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DBName:   os.Getenv("POSTGRES_DB"),
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		TimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Manila"),
	}, logger)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer database.Close(db) //nolint:errcheck

	if err := models.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	if !skipMunicipalities {
		created, err := seedMunicipalities(ctx, repository.NewGormMunicipalityRepository(db), province)
		if err != nil {
			log.Fatalf("seed municipalities: %v", err)
		}
		fmt.Printf("Municipalities seeded. created=%d\n", created)
	}

	if adminPassword == "" {
		fmt.Println("No admin password given, skipping admin account")
		return
	}
	cost, _ := strconv.Atoi(getEnv("BCRYPT_COST", "12"))
	created, err := seedAdmin(ctx, repository.NewGormUserRepository(db), services.NewPasswordHasher(cost), adminUser, adminPassword)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if created {
		fmt.Printf("Admin %q created\n", adminUser)
	} else {
		fmt.Printf("Admin %q already exists\n", adminUser)
	}
}

// seedMunicipalities inserts every missing La Union municipality. Existing
// names are matched case-insensitively so reruns create nothing.
func seedMunicipalities(ctx context.Context, store municipalityStore, province string) (int, error) {
	existing, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list municipalities: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, m := range existing {
		have[strings.ToLower(strings.TrimSpace(m.Name))] = true
	}

	created := 0
	for _, m := range laUnion {
		if have[strings.ToLower(m.Name)] {
			continue
		}
		m.ID = uuid.New()
		m.Province = province
		if err := store.Create(ctx, &m); err != nil {
			return created, fmt.Errorf("create %s: %w", m.Name, err)
		}
		created++
	}
	return created, nil
}

func seedAdmin(ctx context.Context, store userStore, hasher *services.PasswordHasher, username, password string) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if _, err := store.FindByUsername(ctx, username); err == nil {
		return false, nil
	} else if !repository.IsNotFound(err) {
		return false, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		FullName:     "Administrator",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := store.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
