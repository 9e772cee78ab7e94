/*
Copyright 2025 MilhasPix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package milhas

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/milhaspix/milhas/config"
	"github.com/milhaspix/milhas/internal/apierror"
	redlock "github.com/milhaspix/milhas/internal/lock"
	"github.com/milhaspix/milhas/internal/notification"
	"github.com/milhaspix/milhas/internal/request"
	"github.com/milhaspix/milhas/model"
)

var tracer = otel.Tracer("milhas.announcement")

// submitLockTTL outlives any sane announcement roundtrip, so a crashed holder
// cannot wedge a session forever.
const submitLockTTL = 30 * time.Second

// AnnouncementResponse is the envelope the announcement endpoint answers
// with, for both the success and the failure shapes.
type AnnouncementResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Error   string             `json:"error,omitempty"`
	Code    string             `json:"code,omitempty"`
	Details []model.FieldError `json:"details,omitempty"`
}

// SubmitForm runs the submission workflow for a session: validate the whole
// form against the combined schema, post it to the announcement endpoint,
// and on success pin the session at the submitted step with its sensitive
// fields wiped from the snapshot.
//
// Local validation failures never reach the network. A remote failure leaves
// the session untouched so the caller can retry; the workflow itself never
// retries.
func (m *Milhas) SubmitForm(ctx context.Context, sessionID string) (*AnnouncementResponse, error) {
	session, err := m.GetForm(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.beginSubmit() {
		if session.Submitted() {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "Anúncio já foi enviado", nil)
		}
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Já existe um envio em andamento", nil)
	}
	defer session.endSubmit()

	if m.lock != nil {
		locker := redlock.NewSubmitLocker(m.lock, sessionID)
		if err := locker.Lock(ctx, submitLockTTL); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "Já existe um envio em andamento", nil)
		}
		defer func() {
			if err := locker.Unlock(context.WithoutCancel(ctx)); err != nil {
				logrus.WithField("session_id", sessionID).WithError(err).Warn("failed to release submit lock")
			}
		}()
	}

	values := session.Values()
	if verr := values.ValidateCombined(); verr != nil {
		return nil, apierror.NewAPIError(apierror.ErrValidation, "Dados inválidos", model.FieldErrors(verr))
	}

	cfg, err := config.Fetch()
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Erro interno do servidor", err)
	}

	ctx, span := tracer.Start(ctx, "Submitting announcement")
	defer span.End()

	payload, err := request.ToJsonReq(&values)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Erro interno do servidor", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Submission.Endpoint, payload)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Erro interno do servidor", err)
	}

	var envelope AnnouncementResponse
	resp, err := request.CallWithTimeout(req, &envelope, time.Duration(cfg.Upstream.TimeoutSec)*time.Second)
	if err != nil {
		logrus.WithField("session_id", sessionID).WithError(err).Error("announcement submission failed")
		notification.NotifyError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Erro ao processar solicitação", err.Error())
	}

	if resp.StatusCode != http.StatusOK || !envelope.Success {
		return nil, submissionError(resp.StatusCode, envelope)
	}

	session.finalizeSubmission(ctx)
	logrus.WithField("session_id", sessionID).Info("announcement submitted")
	return &envelope, nil
}

// submissionError maps the endpoint's failure envelope onto an APIError,
// keeping field-level details when the remote rejected the schema.
func submissionError(status int, envelope AnnouncementResponse) error {
	message := envelope.Error
	if message == "" {
		message = "Erro ao processar solicitação"
	}

	switch apierror.ErrorCode(envelope.Code) {
	case apierror.ErrValidation:
		return apierror.NewAPIError(apierror.ErrValidation, message, envelope.Details)
	case apierror.ErrInvalidContentType, apierror.ErrInvalidJSON, apierror.ErrFakeDemo:
		return apierror.NewAPIError(apierror.ErrorCode(envelope.Code), message, nil)
	}
	if status >= 500 {
		return apierror.NewAPIError(apierror.ErrInternalServer, message, envelope.Code)
	}
	return apierror.NewAPIError(apierror.ErrBadRequest, message, envelope.Code)
}
