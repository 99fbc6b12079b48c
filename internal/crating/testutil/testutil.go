package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"github.com/frederickespin/osi-plus-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_crating"
	JWTSecret  = "osi-crating-jwt-secret-key-2024"
)

// TestEnv holds test environment resources.
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB creates a test database connection using a dedicated test
// schema. Each test gets an isolated schema that is dropped on cleanup.
// Tests are skipped when no database is reachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "osi")
	password := getEnv("DB_PASSWORD", "osi123")
	dbname := getEnv("DB_NAME", "osi_erp")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("database unavailable, skipping: %v", err)
	}
	if err := setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName)).Error; err != nil {
		t.Skipf("database unavailable, skipping: %v", err)
	}
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// search_path in the DSN so all pooled connections use the test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing.
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing.
func GenerateTestToken(userID, name, email string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"roles": roles,
		"iss":   "osi-plus",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user.
func DefaultTestToken() string {
	return GenerateTestToken(
		"test-user-001",
		"Test Admin",
		"admin@test.com",
		[]string{"erp_admin"},
	)
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SampleSettings builds a settings payload that passes validation, with
// round numbers convenient for assertions.
func SampleSettings() entity.Settings {
	return entity.Settings{
		Lumber:  entity.LumberCatalog{LengthsIn: []float64{96}},
		Plywood: entity.PlywoodCatalog{SheetSizeIn: entity.SheetSize{W: 48, H: 96}, ThicknessOptionsIn: []float64{0.25, 0.5, 0.75}},
		Foam:    entity.FoamCatalog{ThicknessOptionsIn: []float64{1, 2}},
		Cardboard: entity.CardboardCatalog{
			ThicknessIn: 0.125,
		},
		Nesting: entity.NestingParams{
			MaxDepthForNestingCm:   120,
			MaxItemsPerBox:         4,
			SimilarityTolerancePct: 5,
			AllowRotationDefault:   true,
		},
		Protection: entity.ProtectionTable{
			"1": {PerimeterFoamIn: 0.5, BetweenItemsFoamIn: 0.5, CardboardIn: 0.125},
			"2": {PerimeterFoamIn: 1, BetweenItemsFoamIn: 1, CardboardIn: 0.125},
			"3": {PerimeterFoamIn: 1, BetweenItemsFoamIn: 1, CardboardIn: 0.25},
			"4": {PerimeterFoamIn: 2, BetweenItemsFoamIn: 1, CardboardIn: 0.25},
			"5": {PerimeterFoamIn: 2, BetweenItemsFoamIn: 2, CardboardIn: 0.25, DoublePerimeter: true},
		},
		Engineering: entity.EngineeringRules{
			Thresholds: entity.EngineeringThresholds{
				Use2x4IfWeightLbAbove:         150,
				Use2x4IfLongestSideInAbove:    60,
				SkidIfWeightLbAbove:           200,
				SkidIfLongestSideInAbove:      72,
				AddRibsIfLongestSideInAbove:   48,
				AddXBracingIfAspectRatioAbove: 2.5,
			},
			PlywoodThicknessByProfileIn: map[entity.Profile]float64{
				entity.ProfileStandardLocal:   0.25,
				entity.ProfileExportISPM15:    0.5,
				entity.ProfilePremiumArtIT:    0.5,
				entity.ProfileMachineryISPM15: 0.75,
			},
		},
		Pricing: entity.PricingRules{
			Rounding:           entity.RoundingRule{StepUnits: 0.5},
			WastePctByMaterial: entity.WastePct{Plywood: 10, Lumber: 10, Foam: 5},
			Labor:              entity.LaborRule{Enabled: true, RatePerHour: 20},
			MarkupPctByProfile: map[entity.Profile]float64{
				entity.ProfileStandardLocal:   40,
				entity.ProfileExportISPM15:    50,
				entity.ProfilePremiumArtIT:    60,
				entity.ProfileMachineryISPM15: 50,
			},
			UnitCosts: entity.UnitCosts{
				LumberPerStick: map[string]float64{
					entity.Lumber1x4: 4,
					entity.Lumber2x4: 8,
				},
				PlywoodPerSheetByThicknessIn: map[string]float64{
					"0.25": 25,
					"0.5":  40,
					"0.75": 55,
				},
				FoamPerSheetByThicknessIn: map[string]float64{
					"1": 12,
					"2": 20,
				},
				CardboardPerSheet: 3,
			},
		},
		Adders: entity.AdderRules{
			Fumigation: entity.FumigationAdder{
				Enabled:               true,
				Mode:                  entity.AdderModePerBox,
				Rate:                  15,
				MarkingIppcRatePerBox: 5,
			},
			Fasteners: entity.FastenerAdder{
				Enabled:                true,
				Mode:                   entity.AdderModeFixedPerBox,
				BoxVolumeThresholdsIn3: entity.VolumeThresholds{SmallMax: 10000, MediumMax: 40000},
				RateBySize:             entity.RateBySize{Small: 5, Medium: 9, Large: 14},
			},
		},
	}
}

// SeedSettingsVersion inserts an active settings version.
func SeedSettingsVersion(t *testing.T, db *gorm.DB) *entity.SettingsVersion {
	t.Helper()
	version := &entity.SettingsVersion{
		ID:        uuid.New().String(),
		Payload:   SampleSettings(),
		Active:    true,
		UpdatedBy: "test-user-001",
		CreatedAt: time.Now(),
	}
	if err := db.Create(version).Error; err != nil {
		t.Fatalf("Failed to seed settings version: %v", err)
	}
	return version
}

// SeedDraft inserts an empty draft for a customer.
func SeedDraft(t *testing.T, db *gorm.DB, customerID string) *entity.Draft {
	t.Helper()
	draft := &entity.Draft{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Items:      entity.ItemList{},
		CreatedBy:  "test-user-001",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := db.Create(draft).Error; err != nil {
		t.Fatalf("Failed to seed draft: %v", err)
	}
	return draft
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
