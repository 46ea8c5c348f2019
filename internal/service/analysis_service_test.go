package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fairwaylabs/caddie-api/internal/dto"
	"github.com/fairwaylabs/caddie-api/internal/golf"
	"github.com/fairwaylabs/caddie-api/internal/models"
	"github.com/fairwaylabs/caddie-api/internal/repository"
	"github.com/fairwaylabs/caddie-api/pkg/ai"
	"github.com/fairwaylabs/caddie-api/pkg/ghin"
)

const validResultJSON = `{
  "summary": "Solid ball striker who leaks shots right under pressure.",
  "par_strategies": {
    "par_threes": "Aim center of every green.",
    "par_fours": "Three wood off the tee on tight holes.",
    "par_fives": "Lay up to your favorite wedge number."
  },
  "scoring_areas": [
    {"area": "Driving", "assessment": "Miss pattern is right.", "priority": 1}
  ],
  "trouble_holes": [{"hole": 7, "note": "Double bogey average."}],
  "hole_plans": [],
  "practice_plan": [
    {"focus": "Driver start line", "drill": "Gate drill with alignment sticks.", "frequency": "3x per week"}
  ],
  "mental_game": ["Commit to the club before stepping in."],
  "handicap_path": "Fairway percentage is the fastest lever."
}`

// pngHeader is enough for content sniffing to classify the payload as a PNG.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

type fakeCoach struct {
	rounds     []golf.Round
	extractErr error
	analyzeErr error
	lastPrompt string
}

func (f *fakeCoach) Analyze(_ context.Context, prompt string) (golf.AnalysisResult, json.RawMessage, error) {
	f.lastPrompt = prompt
	if f.analyzeErr != nil {
		return golf.AnalysisResult{}, nil, f.analyzeErr
	}
	result, raw, err := ai.ParseAnalysis(validResultJSON)
	if err != nil {
		panic(err)
	}
	return result, raw, nil
}

func (f *fakeCoach) ExtractRounds(_ context.Context, _ []ai.Image) ([]golf.Round, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.rounds, nil
}

func (f *fakeCoach) CourseStrategy(_ context.Context, _ string, _ *ai.Image) (json.RawMessage, error) {
	return json.RawMessage(`{"overview":"","key_holes":[],"club_selection":"","scoring_targets":""}`), nil
}

type fakeHandicap struct {
	rounds []golf.Round
	err    error
}

func (f *fakeHandicap) Lookup(context.Context, string) (dto.GolferResponse, error) {
	return dto.GolferResponse{}, f.err
}

func (f *fakeHandicap) LookupGolfer(context.Context, string) (ghin.Golfer, error) {
	return ghin.Golfer{}, f.err
}

func (f *fakeHandicap) RecentScores(_ context.Context, ghinNumber string, _ int) (dto.ScoresResponse, error) {
	if f.err != nil {
		return dto.ScoresResponse{}, f.err
	}
	return dto.ScoresResponse{GHINNumber: ghinNumber, Rounds: f.rounds}, nil
}

func newAnalysisFixture(t *testing.T, name string, coach CoachModel, handicap HandicapService) (AnalysisService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Analysis{}, &models.RoundRecord{}))

	svc := NewAnalysisService(db, repository.NewUserRepository(db), repository.NewAnalysisRepository(db), coach, handicap, zerolog.Nop())
	return svc, db
}

func createUser(t *testing.T, db *gorm.DB, tier string, credits int) models.User {
	t.Helper()

	user := models.User{
		Email:            fmt.Sprintf("%s-%d@example.com", tier, credits),
		PasswordHash:     "x",
		Name:             "Test Golfer",
		SubscriptionTier: tier,
		Credits:          credits,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestAnalyzePreviewSkipsPersistenceAndCredits(t *testing.T) {
	svc, db := newAnalysisFixture(t, "preview", &fakeCoach{}, &fakeHandicap{})
	user := createUser(t, db, models.TierFree, 3)

	resp, err := svc.Analyze(context.Background(), &user.ID, dto.AnalyzeRequest{Name: "Jordan", Preview: true}, nil)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Empty(t, resp.AnalysisID)
	require.Nil(t, resp.CreditsRemaining)

	var count int64
	require.NoError(t, db.Model(&models.Analysis{}).Count(&count).Error)
	require.Zero(t, count)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, 3, reloaded.Credits)
}

func TestAnalyzePreviewWorksWithoutUser(t *testing.T) {
	svc, _ := newAnalysisFixture(t, "anon", &fakeCoach{}, &fakeHandicap{})

	resp, err := svc.Analyze(context.Background(), nil, dto.AnalyzeRequest{Name: "Jordan", Preview: true}, nil)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, models.SourceNone, resp.Source)
}

func TestAnalyzeRequiresAuthWhenNotPreview(t *testing.T) {
	svc, _ := newAnalysisFixture(t, "noauth", &fakeCoach{}, &fakeHandicap{})

	_, err := svc.Analyze(context.Background(), nil, dto.AnalyzeRequest{Name: "Jordan"}, nil)
	require.ErrorIs(t, err, ErrAuthRequired)
}

func TestAnalyzeSpendsExactlyOneCredit(t *testing.T) {
	svc, db := newAnalysisFixture(t, "spend", &fakeCoach{}, &fakeHandicap{})
	user := createUser(t, db, models.TierFree, 1)

	resp, err := svc.Analyze(context.Background(), &user.ID, dto.AnalyzeRequest{Name: "Jordan"}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, resp.AnalysisID)
	require.NotNil(t, resp.CreditsRemaining)
	require.Equal(t, 0, *resp.CreditsRemaining)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, 0, reloaded.Credits)

	var stored models.Analysis
	require.NoError(t, db.Where("id = ?", resp.AnalysisID).First(&stored).Error)
	require.Equal(t, user.ID, stored.UserID)
	require.JSONEq(t, validResultJSON, string(stored.Result))
}

func TestAnalyzeRejectsWithoutCredits(t *testing.T) {
	svc, db := newAnalysisFixture(t, "broke", &fakeCoach{}, &fakeHandicap{})
	user := createUser(t, db, models.TierFree, 0)

	_, err := svc.Analyze(context.Background(), &user.ID, dto.AnalyzeRequest{Name: "Jordan"}, nil)
	require.ErrorIs(t, err, ErrInsufficientCredits)

	var count int64
	require.NoError(t, db.Model(&models.Analysis{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAnalyzeProUserKeepsUnlimitedAccess(t *testing.T) {
	svc, db := newAnalysisFixture(t, "pro", &fakeCoach{}, &fakeHandicap{})
	user := createUser(t, db, models.TierPro, 0)

	resp, err := svc.Analyze(context.Background(), &user.ID, dto.AnalyzeRequest{Name: "Jordan"}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, resp.AnalysisID)
	require.Nil(t, resp.CreditsRemaining)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, 0, reloaded.Credits)
}

func TestAnalyzePrefersHandicapServiceRounds(t *testing.T) {
	score := 82
	rounds := []golf.Round{{CourseName: "Pebble Creek", TotalScore: &score}}
	svc, db := newAnalysisFixture(t, "ghin", &fakeCoach{}, &fakeHandicap{rounds: rounds})
	user := createUser(t, db, models.TierFree, 2)

	resp, err := svc.Analyze(context.Background(), &user.ID, dto.AnalyzeRequest{Name: "Jordan", GHINNumber: "1234567"}, nil)
	require.NoError(t, err)
	require.Equal(t, models.SourceHandicapService, resp.Source)
	require.Len(t, resp.Rounds, 1)

	var recordCount int64
	require.NoError(t, db.Model(&models.RoundRecord{}).Count(&recordCount).Error)
	require.EqualValues(t, 1, recordCount)
}

func TestAnalyzeLayoutBuiltWithoutCourseName(t *testing.T) {
	rounds := []golf.Round{{
		CourseName: "Pebble Creek",
		Holes: []golf.Hole{
			{Number: 1, Par: golf.IntPtr(4), Score: golf.IntPtr(5)},
			{Number: 2, Par: golf.IntPtr(3), Score: golf.IntPtr(3)},
		},
	}}
	coach := &fakeCoach{}
	svc, db := newAnalysisFixture(t, "layoutname", coach, &fakeHandicap{rounds: rounds})
	user := createUser(t, db, models.TierFree, 2)

	// No course_name in the request; the layout comes from the round history.
	_, err := svc.Analyze(context.Background(), &user.ID, dto.AnalyzeRequest{Name: "Jordan", GHINNumber: "1234567"}, nil)
	require.NoError(t, err)
	require.Contains(t, coach.lastPrompt, "# Course Layout — Pebble Creek")
}

func TestAnalyzeHandicapServiceFailureAborts(t *testing.T) {
	svc, db := newAnalysisFixture(t, "ghinfail", &fakeCoach{}, &fakeHandicap{err: errors.New("upstream down")})
	user := createUser(t, db, models.TierFree, 2)

	_, err := svc.Analyze(context.Background(), &user.ID, dto.AnalyzeRequest{Name: "Jordan", GHINNumber: "1234567"}, nil)
	require.Error(t, err)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, 2, reloaded.Credits)
}

func TestAnalyzeExtractionFailureDegrades(t *testing.T) {
	coach := &fakeCoach{extractErr: errors.New("vision model unavailable")}
	svc, db := newAnalysisFixture(t, "ocrfail", coach, &fakeHandicap{})
	user := createUser(t, db, models.TierFree, 1)

	images := []ai.Image{{MIME: "image/png", Data: pngHeader}}
	resp, err := svc.Analyze(context.Background(), &user.ID, dto.AnalyzeRequest{Name: "Jordan"}, images)
	require.NoError(t, err)
	require.Equal(t, models.SourceNone, resp.Source)
	require.Empty(t, resp.Rounds)
}

func TestAnalyzeRejectsNonImageUpload(t *testing.T) {
	svc, db := newAnalysisFixture(t, "badfile", &fakeCoach{}, &fakeHandicap{})
	user := createUser(t, db, models.TierFree, 1)

	images := []ai.Image{{MIME: "image/png", Data: []byte("not an image at all")}}
	_, err := svc.Analyze(context.Background(), &user.ID, dto.AnalyzeRequest{Name: "Jordan"}, images)
	require.ErrorIs(t, err, ErrNotAnImage)
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, db := newAnalysisFixture(t, "owner", &fakeCoach{}, &fakeHandicap{})
	owner := createUser(t, db, models.TierFree, 1)
	intruder := createUser(t, db, models.TierPro, 0)

	resp, err := svc.Analyze(context.Background(), &owner.ID, dto.AnalyzeRequest{Name: "Jordan"}, nil)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), intruder.ID, resp.AnalysisID)
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Get(context.Background(), owner.ID, "missing-id")
	require.ErrorIs(t, err, ErrAnalysisNotFound)

	detail, err := svc.Get(context.Background(), owner.ID, resp.AnalysisID)
	require.NoError(t, err)
	require.Equal(t, "Jordan", detail.GolferName)
}

func TestRenderPDFProducesBothDocuments(t *testing.T) {
	svc, db := newAnalysisFixture(t, "pdf", &fakeCoach{}, &fakeHandicap{})
	user := createUser(t, db, models.TierPro, 0)

	resp, err := svc.Analyze(context.Background(), &user.ID, dto.AnalyzeRequest{Name: "Jordan"}, nil)
	require.NoError(t, err)

	for _, docType := range []string{"strategy", "practice"} {
		document, err := svc.RenderPDF(context.Background(), user.ID, resp.AnalysisID, docType)
		require.NoError(t, err)
		require.True(t, len(document) > 4)
		require.Equal(t, "%PDF", string(document[:4]))
	}

	_, err = svc.RenderPDF(context.Background(), user.ID, resp.AnalysisID, "poster")
	require.ErrorIs(t, err, ErrUnknownDocument)
}

func TestValidateImagesLimits(t *testing.T) {
	many := make([]ai.Image, maxImages+1)
	for i := range many {
		many[i] = ai.Image{Data: pngHeader}
	}
	require.ErrorIs(t, ValidateImages(many), ErrTooManyImages)

	huge := ai.Image{Data: append(append([]byte{}, pngHeader...), make([]byte, maxImageBytes)...)}
	require.ErrorIs(t, ValidateImages([]ai.Image{huge}), ErrImageTooLarge)

	require.NoError(t, ValidateImages([]ai.Image{{Data: pngHeader}}))
}
