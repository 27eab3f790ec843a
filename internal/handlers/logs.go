package handlers

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	helpers "publish/internal/utils/helpres"
)

// AdminLogsHandler reads back the JSON log files the logger writes:
// the live app.log and lumberjack backups app-<timestamp>.log[.gz].
type AdminLogsHandler struct {
	LogDir string
	now    func() time.Time
}

func NewAdminLogsHandler(logDir string) *AdminLogsHandler {
	return &AdminLogsHandler{LogDir: logDir, now: time.Now}
}

var reDay = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type logsPayload struct {
	Day        string            `json:"day"`
	Items      []json.RawMessage `json:"items"`
	NextCursor int               `json:"nextCursor"`
}

// GetLogs godoc
// @Summary      Logs for one day (admin only)
// @Description  JSON log lines for a day, filtered by level and substring.
// @Tags         admin
// @Security     ApiKeyAuth
// @Produce      json
// @Param        day     query  string  true   "Day (YYYY-MM-DD)"
// @Param        level   query  string  false  "CSV of levels: debug,info,warn,error"
// @Param        q       query  string  false  "Substring"
// @Param        limit   query  int     false  "Limit (default 200, max 1000)"
// @Param        cursor  query  int     false  "Line to resume after"
// @Success      200  {object}  helpers.Response{payload=logsPayload}
// @Failure      400  {object}  helpers.Response
// @Failure      404  {object}  helpers.Response
// @Router       /api/admin/logs [get]
func (h *AdminLogsHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "bad day")
		return
	}

	levels := toUpperSet(r.URL.Query().Get("level"))
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	limit := clampAtoi(r.URL.Query().Get("limit"), 200, 1, 1000)
	cursor := clampAtoi(r.URL.Query().Get("cursor"), 0, 0, 10_000_000)

	lineNo := 0
	items := make([]json.RawMessage, 0)

	err := h.forEachDayLine(day, func(raw []byte) bool {
		lineNo++
		if lineNo <= cursor {
			return true
		}
		if q != "" && !strings.Contains(strings.ToLower(string(raw)), q) {
			return true
		}
		var entry struct {
			Level string `json:"level"`
		}
		// console-format lines are skipped
		if err := json.Unmarshal(raw, &entry); err != nil {
			return true
		}
		if len(levels) > 0 && !levels[strings.ToUpper(entry.Level)] {
			return true
		}
		items = append(items, append(json.RawMessage{}, raw...))
		return len(items) < limit
	})
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "day not found")
		return
	}

	helpers.JSON(w, http.StatusOK, "", logsPayload{Day: day, Items: items, NextCursor: lineNo})
}

func (h *AdminLogsHandler) listFilesForDay(day string) ([]string, error) {
	entries, err := os.ReadDir(h.LogDir)
	if err != nil {
		return nil, err
	}
	today := h.now().Local().Format("2006-01-02")

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == "app.log" && day == today {
			files = append(files, filepath.Join(h.LogDir, name))
			continue
		}
		if strings.HasPrefix(name, "app-") && strings.Contains(name, day) &&
			(strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".gz")) {
			files = append(files, filepath.Join(h.LogDir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (h *AdminLogsHandler) forEachDayLine(day string, handle func([]byte) bool) error {
	files, err := h.listFilesForDay(day)
	if err != nil || len(files) == 0 {
		return os.ErrNotExist
	}

	for _, path := range files {
		if !scanFile(path, handle) {
			break
		}
	}
	return nil
}

// scanFile feeds every line of path to handle and reports whether to go on.
func scanFile(path string, handle func([]byte) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return true
		}
		defer gr.Close()
		reader = gr
	}

	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if !handle(sc.Bytes()) {
			return false
		}
	}
	return true
}

func toUpperSet(csv string) map[string]bool {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	m := map[string]bool{}
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			m[strings.ToUpper(p)] = true
		}
	}
	return m
}
