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

package api

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milhaspix/milhas/internal/request"
	"github.com/milhaspix/milhas/model"
)

type announcementEnvelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Error   string             `json:"error"`
	Code    string             `json:"code"`
	Details []model.FieldError `json:"details"`
}

func validAnnouncementPayload() map[string]interface{} {
	return map[string]interface{}{
		"program":          "latam",
		"product":          "Liminar",
		"payoutTiming":     "imediato",
		"milesOffered":     10000,
		"valuePerThousand": "15.50",
		"cpf":              "123.456.789-09",
		"login":            gofakeit.Email(),
		"password":         "1234",
		"phone":            "+55 11 91234-5678",
	}
}

func TestCreateAnnouncement(t *testing.T) {
	router, _ := setupRouter(t)

	payload, err := request.ToJsonReq(validAnnouncementPayload())
	require.NoError(t, err)

	var response announcementEnvelope
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Response: &response,
		Method:   "POST",
		Route:    "/api/announcement",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, response.Success)
	assert.Equal(t, "Anúncio criado com sucesso!", response.Message)
}

func TestCreateAnnouncementRejectsWrongContentType(t *testing.T) {
	router, _ := setupRouter(t)

	var response announcementEnvelope
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  strings.NewReader("program=latam"),
		Response: &response,
		Method:   "POST",
		Route:    "/api/announcement",
		Router:   router,
		Header:   map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.False(t, response.Success)
	assert.Equal(t, "INVALID_CONTENT_TYPE", response.Code)
}

func TestCreateAnnouncementRejectsMalformedJSON(t *testing.T) {
	router, _ := setupRouter(t)

	var response announcementEnvelope
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBufferString("{not json"),
		Response: &response,
		Method:   "POST",
		Route:    "/api/announcement",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "INVALID_JSON", response.Code)
}

func TestCreateAnnouncementValidates(t *testing.T) {
	router, _ := setupRouter(t)

	payload := validAnnouncementPayload()
	payload["cpf"] = "123.456.789-00"
	payload["milesOffered"] = 500
	body, err := request.ToJsonReq(payload)
	require.NoError(t, err)

	var response announcementEnvelope
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/api/announcement",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.False(t, response.Success)
	assert.Equal(t, "VALIDATION_ERROR", response.Code)
	assert.Equal(t, "Dados inválidos", response.Error)

	messages := make(map[string]string)
	for _, d := range response.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "CPF inválido", messages["cpf"])
	assert.Equal(t, "Mínimo de 1.000 milhas", messages["milesOffered"])
}
