package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/handler"
	"github.com/noah-isme/gradex-go-api/internal/service"
)

type stubTeacherDashboardService struct {
	response dto.TeacherDashboardResponse
}

func (s stubTeacherDashboardService) GetDashboard(context.Context, service.Actor) (dto.TeacherDashboardResponse, error) {
	return s.response, nil
}

func TestTeacherDashboardContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "teacher_dashboard.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Now().UTC()
	response := dto.TeacherDashboardResponse{
		Statistics: dto.TeacherStatistics{
			TotalExams:         4,
			TotalSubmissions:   120,
			PendingSubmissions: 30,
			StudentsGraded:     90,
		},
		RecentExams: []dto.ExamResponse{
			{
				ID:               7,
				InstructorID:     1,
				Title:            "Midterm",
				Type:             "mixed",
				IsActive:         true,
				TotalSubmissions: 42,
				GradedCount:      40,
				CreatedAt:        now.Add(-72 * time.Hour),
				UpdatedAt:        now,
			},
		},
		GradeDistribution: dto.GradeDistribution{A: 20, B: 35, C: 25, D: 7, F: 3},
	}

	svc := stubTeacherDashboardService{response: response}
	dashboardHandler := handler.NewTeacherDashboardHandler(svc, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/teacher/dashboard", func(c *fiber.Ctx) error {
		c.Locals("user_id", "instr-1")
		c.Locals("user_role", "teacher")
		return c.Next()
	})
	dashboardHandler.Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teacher/dashboard", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
