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
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	model2 "github.com/milhaspix/milhas/api/model"
	"github.com/milhaspix/milhas/internal/apierror"
)

// respondError writes an APIError in the announcement envelope shape. Errors
// that are not APIErrors come out as a generic 500 with no internals leaked.
func respondError(c *gin.Context, err error) {
	status := apierror.MapErrorToHTTPStatus(err)
	if apiErr, ok := err.(apierror.APIError); ok {
		body := gin.H{"success": false, "error": apiErr.Message, "code": apiErr.Code}
		if apiErr.Details != nil {
			body["details"] = apiErr.Details
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Erro interno do servidor",
		"code":    apierror.ErrInternalServer,
	})
}

func (a Api) CreateForm(c *gin.Context) {
	session, err := a.milhas.CreateForm(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model2.ToFormStateView(session))
}

func (a Api) GetForm(c *gin.Context) {
	session, err := a.milhas.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model2.ToFormStateView(session))
}

func (a Api) UpdateFormFields(c *gin.Context) {
	session, err := a.milhas.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var body model2.UpdateFormFields
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apierror.NewAPIError(apierror.ErrInvalidJSON, "Invalid JSON in request body", err.Error()))
		return
	}

	session.UpdateFields(c.Request.Context(), body.FormValues)
	c.JSON(http.StatusOK, model2.ToFormStateView(session))
}

func (a Api) AdvanceForm(c *gin.Context) {
	session, err := a.milhas.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	moved := session.Advance(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"moved": moved, "state": model2.ToFormStateView(session)})
}

func (a Api) RetreatForm(c *gin.Context) {
	session, err := a.milhas.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	moved := session.Retreat(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"moved": moved, "state": model2.ToFormStateView(session)})
}

func (a Api) GoToStep(c *gin.Context) {
	session, err := a.milhas.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		respondError(c, apierror.NewAPIError(apierror.ErrBadRequest, "step must be a number", nil))
		return
	}

	moved := session.GoToStep(c.Request.Context(), step)
	c.JSON(http.StatusOK, gin.H{"moved": moved, "state": model2.ToFormStateView(session)})
}

func (a Api) FormRanking(c *gin.Context) {
	session, err := a.milhas.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := session.Ranking()
	if err != nil {
		respondError(c, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to fetch ranking data", err.Error()))
		return
	}
	c.JSON(http.StatusOK, items)
}

func (a Api) SubmitForm(c *gin.Context) {
	resp, err := a.milhas.SubmitForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := a.milhas.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": resp.Message,
		"state":   model2.ToFormStateView(session),
	})
}

func (a Api) ClearForm(c *gin.Context) {
	if err := a.milhas.DropForm(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
