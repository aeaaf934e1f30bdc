package server

import (
	"errors"
	"net/http"

	"github.com/hay-kot/criterio"
	"github.com/labstack/echo/v4"

	"github.com/colonyops/sentiview/internal/core/sentiment"
)

type textRequest struct {
	Text   string `json:"text"`
	Method string `json:"method"`
}

type textResponse struct {
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
	Method    string `json:"method"`
}

type detailedResponse struct {
	Text       string           `json:"text"`
	Sentiment  string           `json:"sentiment"`
	Confidence float64          `json:"confidence"`
	Scores     sentiment.Scores `json:"scores"`
	Method     string           `json:"method"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) feedback(c echo.Context) error {
	var req sentiment.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}

	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, validationError(err))
	}

	cl := s.classifier(req.Method)
	analysis := cl.Analyze(req.Feedback)
	req.Method = cl.Name()

	return c.JSON(http.StatusOK, sentiment.Response{
		Request:   req,
		Sentiment: analysis.Sentiment,
	})
}

func (s *Server) analyze(c echo.Context) error {
	req, cl, err := s.bindText(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, textResponse{
		Text:      req.Text,
		Sentiment: cl.Analyze(req.Text).Sentiment,
		Method:    cl.Name(),
	})
}

func (s *Server) analyzeDetailed(c echo.Context) error {
	req, cl, err := s.bindText(c)
	if err != nil {
		return err
	}

	analysis := cl.Analyze(req.Text)
	return c.JSON(http.StatusOK, detailedResponse{
		Text:       req.Text,
		Sentiment:  analysis.Sentiment,
		Confidence: analysis.Confidence,
		Scores:     analysis.Scores,
		Method:     cl.Name(),
	})
}

// bindText decodes a text request and picks its classifier. Errors are
// *echo.HTTPError values.
func (s *Server) bindText(c echo.Context) (textRequest, sentiment.Classifier, error) {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return req, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}

	if req.Text == "" {
		return req, nil, echo.NewHTTPError(http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation failed",
			Fields: map[string]string{"text": "required"},
		})
	}

	return req, s.classifier(req.Method), nil
}

func validationError(err error) errorResponse {
	resp := errorResponse{Error: "validation failed"}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		resp.Fields = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			resp.Fields[fe.Field] = fe.Err.Error()
		}
	}
	return resp
}
