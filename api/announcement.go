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
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/milhaspix/milhas/config"
	"github.com/milhaspix/milhas/internal/apierror"
	"github.com/milhaspix/milhas/model"
)

// CreateAnnouncement is the intake endpoint the submission workflow posts to.
// It re-validates the full payload and simulates backend processing time and
// intermittent demo failures, both tunable through the submission config.
func (a Api) CreateAnnouncement(c *gin.Context) {
	if ct := c.ContentType(); !strings.HasPrefix(ct, "application/json") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Content-Type deve ser application/json",
			"code":    apierror.ErrInvalidContentType,
		})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, apierror.NewAPIError(apierror.ErrInvalidJSON, "JSON inválido", err.Error()))
		return
	}

	var values model.FormValues
	if err := json.Unmarshal(body, &values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "JSON inválido",
			"code":    apierror.ErrInvalidJSON,
		})
		return
	}

	if err := values.ValidateCombined(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Dados inválidos",
			"code":    apierror.ErrValidation,
			"details": model.FieldErrors(err),
		})
		return
	}

	cfg, err := config.Fetch()
	if err != nil {
		respondError(c, err)
		return
	}

	if cfg.Submission.SimulatedDelayMs > 0 {
		select {
		case <-time.After(time.Duration(cfg.Submission.SimulatedDelayMs) * time.Millisecond):
		case <-c.Request.Context().Done():
			return
		}
	}

	if cfg.Submission.FailureRate > 0 && rand.Float64() < cfg.Submission.FailureRate {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Erro simulado para demonstração",
			"code":    apierror.ErrFakeDemo,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Anúncio criado com sucesso!",
	})
}
