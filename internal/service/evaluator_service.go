package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"interviewlab/internal/analyzer"
	"interviewlab/internal/config"
	"interviewlab/internal/model"
)

// EvaluatorService produces feedback reports, preferring the AI-assisted
// Gemini path and falling back to the local heuristic analyzer. The chain
// is remote -> local -> floor; a completed session always yields a
// well-formed report and the caller never sees a remote failure.
type EvaluatorService struct {
	config *config.AIConfig
	client *http.Client
	local  *analyzer.Analyzer
	logger *zap.Logger
}

// NewEvaluatorService creates a new evaluator service.
func NewEvaluatorService(cfg *config.AIConfig, local *analyzer.Analyzer, logger *zap.Logger) *EvaluatorService {
	return &EvaluatorService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		local:  local,
		logger: logger,
	}
}

// AnalyzeSession runs the fallback chain over a completed session.
// Degenerate transcripts never go to the remote model; they get the same
// floor report the local analyzer produces.
func (s *EvaluatorService) AnalyzeSession(ctx context.Context, in analyzer.Input) *model.FeedbackReport {
	if s.config.IsEnabled() && !analyzer.TooShort(in.Turns) {
		report, err := s.tryRemote(ctx, in)
		if err == nil {
			return report
		}
		s.logger.Warn("remote analysis failed, using local analyzer",
			zap.String("sessionId", in.SessionID),
			zap.Error(err))
	}
	return s.local.Analyze(ctx, in)
}

// tryRemote makes the single Gemini attempt: one call, bounded by the
// configured timeout, no retries.
func (s *EvaluatorService) tryRemote(ctx context.Context, in analyzer.Input) (*model.FeedbackReport, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.config.TimeoutMS)*time.Millisecond)
	defer cancel()

	prompt := s.buildAnalysisPrompt(in)
	response, err := s.callGemini(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var raw remoteReport
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		return nil, fmt.Errorf("malformed analysis JSON: %w", err)
	}

	return s.sanitize(&raw, in)
}

// remoteReport is the raw JSON shape expected back from the model. Every
// field is optional; sanitize fills and clamps before anything is trusted.
type remoteReport struct {
	CoverageScores  map[string]float64       `json:"coverageScores"`
	Technique       model.TechniqueBreakdown `json:"technique"`
	Independence    map[string]float64       `json:"independence"`
	NextTimeScripts []string                 `json:"nextTimeScripts"`
	Coaching        struct {
		ClosedQuestionRewrites []model.ClosedQuestionRewrite `json:"closedQuestionRewrites"`
		MiniLessons            []model.MiniLesson            `json:"miniLessons"`
	} `json:"coaching"`
}

// sanitize validates the remote payload against the stage definition:
// scores clamped to [0,1] (0-100 payloads rescaled), area maps restricted
// and filled to exactly the required areas, aggregates and the verdict
// recomputed locally. Unvalidated external JSON is never passed through.
func (s *EvaluatorService) sanitize(raw *remoteReport, in analyzer.Input) (*model.FeedbackReport, error) {
	if len(raw.CoverageScores) == 0 {
		return nil, fmt.Errorf("remote report has no coverage scores")
	}
	stage := in.Stage

	coverage := make(map[string]float64, len(stage.RequiredAreas))
	independence := make(map[string]float64, len(stage.RequiredAreas))
	covSum, indSum := 0.0, 0.0
	for _, area := range stage.RequiredAreas {
		cov := analyzer.CoverageFloor
		if v, ok := raw.CoverageScores[area.ID]; ok {
			cov = normalizeScore(v)
		}
		ind := 1.0
		if v, ok := raw.Independence[area.ID]; ok {
			ind = normalizeScore(v)
		}
		coverage[area.ID] = cov
		independence[area.ID] = ind
		covSum += cov
		indSum += ind
	}
	n := float64(len(stage.RequiredAreas))
	covAgg := covSum / n
	indAgg := indSum / n

	breakdown := model.TechniqueBreakdown{
		OpenRatio:        normalizeScore(raw.Technique.OpenRatio),
		FollowUpRatio:    normalizeScore(raw.Technique.FollowUpRatio),
		TalkBalance:      normalizeScore(raw.Technique.TalkBalance),
		EarlySolutioning: raw.Technique.EarlySolutioning && stage.PenalizeEarlySolutions,
	}
	techAgg := analyzer.CompositeTechnique(breakdown)

	covSub := model.SubScore{Kind: model.ScoreCoverage, PerArea: coverage, Aggregate: covAgg}
	covered, missed := analyzer.Partition(covSub, stage)

	overall := analyzer.Overall(covAgg, techAgg, indAgg, in.Mode)

	report := &model.FeedbackReport{
		SessionID:       in.SessionID,
		StageID:         stage.ID,
		Mode:            in.Mode,
		CoverageScores:  coverage,
		Technique:       breakdown,
		Independence:    independence,
		Overall:         overall,
		Passed:          overall >= stage.PassThreshold,
		CoveredAreas:    covered,
		MissedAreas:     missed,
		NextTimeScripts: sanitizeScripts(raw.NextTimeScripts, missed, stage),
		Coaching: model.Coaching{
			ClosedQuestionRewrites: sanitizeRewrites(raw.Coaching.ClosedQuestionRewrites),
			MiniLessons:            sanitizeLessons(raw.Coaching.MiniLessons, missed, stage),
		},
		Source: model.SourceGemini,
	}
	return report, nil
}

// normalizeScore coerces a remote score into [0,1]. Values that look like
// a 0-100 scale are rescaled first.
func normalizeScore(v float64) float64 {
	if v > 1 && v <= 100 {
		v = v / 100
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sanitizeScripts(remote []string, missed []string, stage *model.StageDefinition) []string {
	scripts := []string{}
	for _, s := range remote {
		if t := strings.TrimSpace(s); t != "" {
			scripts = append(scripts, t)
		}
	}
	if len(scripts) > 0 {
		return scripts
	}
	// Remote gave nothing usable: fall back to the catalog templates.
	for _, areaID := range missed {
		if area, ok := stage.Area(areaID); ok {
			scripts = append(scripts, fmt.Sprintf("Next time, try asking: %q", area.NextTimeScript))
		}
	}
	return scripts
}

func sanitizeRewrites(remote []model.ClosedQuestionRewrite) []model.ClosedQuestionRewrite {
	rewrites := []model.ClosedQuestionRewrite{}
	for _, r := range remote {
		if len(rewrites) >= 3 {
			break
		}
		if strings.TrimSpace(r.Original) == "" || strings.TrimSpace(r.Rewrite) == "" {
			continue
		}
		rewrites = append(rewrites, r)
	}
	return rewrites
}

// sanitizeLessons keeps only lessons for areas the stage requires; anything
// missing is filled from the catalog so the report never invents areas.
func sanitizeLessons(remote []model.MiniLesson, missed []string, stage *model.StageDefinition) []model.MiniLesson {
	byArea := map[string]string{}
	for _, l := range remote {
		if _, ok := stage.Area(l.AreaID); ok && strings.TrimSpace(l.Tip) != "" {
			byArea[l.AreaID] = l.Tip
		}
	}
	lessons := []model.MiniLesson{}
	for _, areaID := range missed {
		tip := byArea[areaID]
		if tip == "" {
			if area, ok := stage.Area(areaID); ok {
				tip = area.MiniLesson
			}
		}
		lessons = append(lessons, model.MiniLesson{AreaID: areaID, Tip: tip})
	}
	return lessons
}

// callGemini makes a request to the Gemini API.
func (s *EvaluatorService) callGemini(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

func (s *EvaluatorService) buildAnalysisPrompt(in analyzer.Input) string {
	var areas strings.Builder
	for _, a := range in.Stage.RequiredAreas {
		fmt.Fprintf(&areas, "- %s (%s): keywords %s\n", a.ID, a.Label, strings.Join(a.Keywords, ", "))
	}

	var transcript strings.Builder
	for _, t := range in.Turns {
		fmt.Fprintf(&transcript, "[%d] %s: %s\n", t.Index, t.Speaker, t.Text)
	}

	var hints strings.Builder
	for _, h := range in.Hints {
		fmt.Fprintf(&hints, "- area=%s type=%s\n", h.AreaID, h.EventType)
	}
	if hints.Len() == 0 {
		hints.WriteString("(none)\n")
	}

	return fmt.Sprintf(`You are grading a business analyst practice interview. Return ONLY valid JSON:
{
  "coverageScores": {"<areaId>": 0.0 to 1.0},
  "technique": {
    "openRatio": 0.0 to 1.0,
    "followUpRatio": 0.0 to 1.0,
    "talkBalance": 0.0 to 1.0,
    "earlySolutioning": true or false
  },
  "independence": {"<areaId>": 0.0 to 1.0},
  "nextTimeScripts": ["open question the trainee should try next time"],
  "coaching": {
    "closedQuestionRewrites": [{"turnIndex": 0, "original": "...", "rewrite": "..."}],
    "miniLessons": [{"areaId": "...", "tip": "..."}]
  }
}

Stage: %s (%s mode)
Required areas:
%s
Coaching hints used during the session:
%s
Transcript:
%s
Score coverage per required area (1.0 if the trainee elicited it, low if not),
technique quality, and independence (reduce per hint reliance). Use ONLY the
area ids listed above.`,
		in.Stage.Title, in.Mode, areas.String(), hints.String(), transcript.String())
}
