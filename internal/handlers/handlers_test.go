package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"alfredoptarigan/resume-maker/internal/models"
	"alfredoptarigan/resume-maker/internal/repositories"
	"alfredoptarigan/resume-maker/internal/services"
)

type stubWorker struct {
	mu   sync.Mutex
	jobs []services.GenerationJob
	err  error
	run  bool
}

func (w *stubWorker) Start(ctx context.Context) {}

func (w *stubWorker) Stop() {}

func (w *stubWorker) Enqueue(job services.GenerationJob) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return w.err
	}
	w.jobs = append(w.jobs, job)
	if w.run {
		for _, msg := range []string{
			services.MsgStarting, services.MsgCallingLLM, services.MsgReformatComplete,
			services.MsgGeneratingPDF, services.MsgPDFComplete,
		} {
			job.Tracker.Append(job.Key(), msg)
		}
		job.Tracker.Complete(job.Key(), "Jane_Doe_Resume.pdf")
	}
	return nil
}

type stubUploadRepo struct {
	mu      sync.Mutex
	created []models.SkillMatrixUpload
}

func (r *stubUploadRepo) Create(upload *models.SkillMatrixUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	upload.ID = uuid.New()
	r.created = append(r.created, *upload)
	return nil
}

func (r *stubUploadRepo) FindByID(id uuid.UUID) (*models.SkillMatrixUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.created {
		if r.created[i].ID == id {
			u := r.created[i]
			return &u, nil
		}
	}
	return nil, repositories.ErrUploadNotFound
}

func (r *stubUploadRepo) List(limit int) ([]models.SkillMatrixUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.SkillMatrixUpload(nil), r.created...), nil
}

type testEnv struct {
	app     *fiber.App
	worker  *stubWorker
	storage services.StorageService
	uploads *stubUploadRepo
}

func newTestEnv(t *testing.T, withHistory bool) *testEnv {
	t.Helper()

	storage := services.NewStorageService(t.TempDir())
	worker := &stubWorker{run: true}
	env := &testEnv{worker: worker, storage: storage}

	var uploadRepo repositories.UploadRepository
	if withHistory {
		env.uploads = &stubUploadRepo{}
		uploadRepo = env.uploads
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, services.NewSessionStore(time.Hour), Handlers{
		SkillMatrix:   NewSkillMatrixHandler(services.NewSkillMatrixIngestor(), uploadRepo, 1<<20),
		Resume:        NewResumeHandler(services.NewPDFParserService(), worker, 1<<20),
		Progress:      NewProgressHandler(storage),
		UploadHistory: NewUploadHistoryHandler(uploadRepo),
	})
	env.app = app
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func multipartRequest(t *testing.T, target, filename string, content []byte, sessionID string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	return req
}

func jsonRequest(t *testing.T, method, target string, payload any, sessionID string) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	return req
}

func decode(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func skillMatrixFile(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"First", "Last", "Experience", "Expertise", "Salesforce Technical Competencies: Apex", "SF Certification: Admin"},
		{"Jane", "Doe", 3, 2, 5, 1},
		{"John", "Smith", 4, 1, 2, 0},
	}
	for i, row := range rows {
		values := row
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &values))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func oldResumeFile(t *testing.T) []byte {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(40, 10, "JaneDoeOldResume")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

// uploadMatrix runs step one and returns the new session ID.
func (e *testEnv) uploadMatrix(t *testing.T) (string, models.SkillMatrixResponse) {
	t.Helper()

	resp := e.do(t, multipartRequest(t, "/upload-skill-matrix", "matrix.xlsx", skillMatrixFile(t), ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.SkillMatrixResponse
	decode(t, resp, &body)
	require.NotEmpty(t, body.SessionID)
	assert.Equal(t, body.SessionID, resp.Header.Get(SessionHeader))
	return body.SessionID, body
}

func TestFlow_UploadSelectGenerateAndPoll(t *testing.T) {
	env := newTestEnv(t, false)

	sessionID, matrix := env.uploadMatrix(t)
	require.Len(t, matrix.Candidates, 2)
	assert.Equal(t, "Role_1", matrix.Candidates[0].ID)
	assert.Equal(t, "Role_1 - Jane Doe", matrix.Candidates[0].DisplayName)

	resp := env.do(t, jsonRequest(t, http.MethodPost, "/select-candidate", models.SelectCandidateRequest{CandidateID: "Role_1"}, sessionID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var selected models.SelectCandidateResponse
	decode(t, resp, &selected)
	assert.Equal(t, "Jane", selected.Candidate.FirstName)
	assert.Equal(t, models.Certified(), selected.Candidate.BehavioralCompetencies["SF Certification: Admin"])

	resp = env.do(t, multipartRequest(t, "/upload-old-resume", "old.pdf", oldResumeFile(t), sessionID))
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var generate models.GenerateResponse
	decode(t, resp, &generate)
	assert.Equal(t, "Role_1", generate.CandidateID)
	assert.Equal(t, "/progress?candidate_id=Role_1", generate.ProgressURL)

	require.Len(t, env.worker.jobs, 1)
	assert.Contains(t, env.worker.jobs[0].OldResumeText, "JaneDoeOldResume")
	assert.Equal(t, sessionID, env.worker.jobs[0].SessionID)

	resp = env.do(t, jsonRequest(t, http.MethodGet, "/progress?candidate_id=Role_1", nil, sessionID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snapshot models.JobSnapshot
	decode(t, resp, &snapshot)
	assert.Equal(t, models.JobReady, snapshot.Status)
	assert.Equal(t, "Jane_Doe_Resume.pdf", snapshot.Filename)
	assert.Contains(t, snapshot.Messages, services.MsgStarting)
	assert.Contains(t, snapshot.Messages, services.MsgPDFComplete)
}

func TestProgress_UnknownCandidateIsRunningWithPlaceholder(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, jsonRequest(t, http.MethodGet, "/progress?candidate_id=Role_7", nil, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snapshot models.JobSnapshot
	decode(t, resp, &snapshot)
	assert.Equal(t, models.JobRunning, snapshot.Status)
	assert.Equal(t, []string{services.PlaceholderMessage}, snapshot.Messages)
}

func TestProgress_RequiresCandidateID(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, jsonRequest(t, http.MethodGet, "/progress", nil, ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadSkillMatrix_Rejections(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name     string
		filename string
		content  []byte
	}{
		{name: "no file", filename: ""},
		{name: "empty file", filename: "matrix.xlsx", content: []byte{}},
		{name: "not a workbook", filename: "matrix.xlsx", content: []byte("hello")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, multipartRequest(t, "/upload-skill-matrix", tt.filename, tt.content, ""))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body models.ErrorResponse
			decode(t, resp, &body)
			assert.Equal(t, http.StatusBadRequest, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestUploadSkillMatrix_ArchivesWhenHistoryEnabled(t *testing.T) {
	env := newTestEnv(t, true)
	sessionID, _ := env.uploadMatrix(t)

	require.Len(t, env.uploads.created, 1)
	archived := env.uploads.created[0]
	assert.Equal(t, sessionID, archived.SessionID)
	assert.Equal(t, "matrix.xlsx", archived.OriginalFileName)
	assert.Equal(t, 2, archived.CandidateCount)
	assert.Contains(t, archived.Candidates, `"Role_2"`)

	resp := env.do(t, jsonRequest(t, http.MethodGet, "/api/v1/uploads", nil, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Uploads []models.SkillMatrixUpload `json:"uploads"`
	}
	decode(t, resp, &list)
	require.Len(t, list.Uploads, 1)

	resp = env.do(t, jsonRequest(t, http.MethodGet, "/api/v1/uploads/"+archived.ID.String(), nil, ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, jsonRequest(t, http.MethodGet, "/api/v1/uploads/"+uuid.NewString(), nil, ""))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, jsonRequest(t, http.MethodGet, "/api/v1/uploads/not-a-uuid", nil, ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadHistory_DisabledWithoutDatabase(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, jsonRequest(t, http.MethodGet, "/api/v1/uploads", nil, ""))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSelectCandidate_Errors(t *testing.T) {
	env := newTestEnv(t, false)
	sessionID, _ := env.uploadMatrix(t)

	resp := env.do(t, jsonRequest(t, http.MethodPost, "/select-candidate", models.SelectCandidateRequest{CandidateID: "Role_99"}, sessionID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, jsonRequest(t, http.MethodPost, "/select-candidate", models.SelectCandidateRequest{CandidateID: "  "}, sessionID))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	form := url.Values{"candidate_id": {"Role_2"}}
	req := httptest.NewRequest(http.MethodPost, "/select-candidate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(SessionHeader, sessionID)
	resp = env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var selected models.SelectCandidateResponse
	decode(t, resp, &selected)
	assert.Equal(t, "John", selected.Candidate.FirstName)
}

func TestUploadOldResume_Errors(t *testing.T) {
	t.Run("no selection", func(t *testing.T) {
		env := newTestEnv(t, false)
		sessionID, _ := env.uploadMatrix(t)

		resp := env.do(t, multipartRequest(t, "/upload-old-resume", "old.pdf", oldResumeFile(t), sessionID))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not a pdf", func(t *testing.T) {
		env := newTestEnv(t, false)
		sessionID := selectJane(t, env)

		resp := env.do(t, multipartRequest(t, "/upload-old-resume", "old.pdf", []byte("plain text"), sessionID))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, env.worker.jobs)
	})

	t.Run("job already running", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.worker.run = false
		sessionID := selectJane(t, env)

		resp := env.do(t, multipartRequest(t, "/upload-old-resume", "old.pdf", oldResumeFile(t), sessionID))
		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		resp = env.do(t, multipartRequest(t, "/upload-old-resume", "old.pdf", oldResumeFile(t), sessionID))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Len(t, env.worker.jobs, 1)
	})

	t.Run("queue full", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.worker.err = services.ErrQueueFull
		sessionID := selectJane(t, env)

		resp := env.do(t, multipartRequest(t, "/upload-old-resume", "old.pdf", oldResumeFile(t), sessionID))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		resp = env.do(t, jsonRequest(t, http.MethodGet, "/progress?candidate_id=Role_1", nil, sessionID))
		var snapshot models.JobSnapshot
		decode(t, resp, &snapshot)
		assert.Equal(t, models.JobFailed, snapshot.Status)
	})
}

func selectJane(t *testing.T, env *testEnv) string {
	t.Helper()
	sessionID, _ := env.uploadMatrix(t)
	resp := env.do(t, jsonRequest(t, http.MethodPost, "/select-candidate", models.SelectCandidateRequest{CandidateID: "Role_1"}, sessionID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return sessionID
}

func TestSessions_AreIsolated(t *testing.T) {
	env := newTestEnv(t, false)
	env.uploadMatrix(t)

	resp := env.do(t, jsonRequest(t, http.MethodGet, "/candidates", nil, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		SessionID  string                   `json:"session_id"`
		Candidates []models.CandidateRecord `json:"candidates"`
	}
	decode(t, resp, &body)
	assert.Empty(t, body.Candidates)
}

func TestDownload(t *testing.T) {
	env := newTestEnv(t, false)
	_, err := env.storage.Save("Jane_Doe_Resume.pdf", []byte("%PDF-1.3 test"))
	require.NoError(t, err)

	resp := env.do(t, jsonRequest(t, http.MethodGet, "/download/Jane_Doe_Resume.pdf", nil, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Jane_Doe_Resume.pdf")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 test", string(data))

	resp = env.do(t, jsonRequest(t, http.MethodGet, "/download/Nobody_Resume.pdf", nil, ""))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, jsonRequest(t, http.MethodGet, "/download/..%2Fsecret.pdf", nil, ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownload_EncodedFilenames(t *testing.T) {
	env := newTestEnv(t, false)

	for _, name := range []string{"Mary Ann_Smith_Resume.pdf", "José_Doe_Resume.pdf"} {
		t.Run(name, func(t *testing.T) {
			_, err := env.storage.Save(name, []byte("pdf of "+name))
			require.NoError(t, err)

			resp := env.do(t, jsonRequest(t, http.MethodGet, "/download/"+url.PathEscape(name), nil, ""))
			require.Equal(t, http.StatusOK, resp.StatusCode)
			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, "pdf of "+name, string(data))
		})
	}
}

func TestHTMLPages(t *testing.T) {
	env := newTestEnv(t, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	resp := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Step 1: Upload Skill Matrix File")

	cookie := resp.Header.Get("Set-Cookie")
	require.Contains(t, cookie, SessionCookie+"=")

	req = multipartRequest(t, "/upload-skill-matrix", "matrix.xlsx", skillMatrixFile(t), "")
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Cookie", strings.Split(cookie, ";")[0])
	resp = env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `<option value="Role_1">Role_1 - Jane Doe</option>`)

	form := url.Values{"candidate_id": {"Role_1"}}
	req = httptest.NewRequest(http.MethodPost, "/select-candidate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Cookie", strings.Split(cookie, ";")[0])
	resp = env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Step 3: Upload Old Resume (PDF)")

	req = multipartRequest(t, "/upload-old-resume", "old.pdf", oldResumeFile(t), "")
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Cookie", strings.Split(cookie, ";")[0])
	resp = env.do(t, req)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/progress?candidate_id=")
	assert.Contains(t, string(body), `"Role_1"`)
}

func TestHTMLErrorPage(t *testing.T) {
	env := newTestEnv(t, false)

	req := multipartRequest(t, "/upload-skill-matrix", "matrix.xlsx", []byte("nope"), "")
	req.Header.Set("Accept", "text/html")
	resp := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "not a valid Excel")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, statusFor(&services.UpstreamServiceError{Service: "openrouter"}))
	assert.Equal(t, http.StatusBadGateway, statusFor(&services.SchemaViolationError{}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(&services.RenderError{Message: "font"}))
	assert.Equal(t, http.StatusConflict, statusFor(services.ErrJobAlreadyRunning))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(services.ErrWorkerStopped))
}
