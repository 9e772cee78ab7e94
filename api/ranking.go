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
)

// SimulateRanking proxies the upstream ranking simulation, shielding the
// browser from CORS and keeping the upstream base URL server-side.
func (a Api) SimulateRanking(c *gin.Context) {
	raw := c.Query("mile_value")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mile_value parameter is required"})
		return
	}
	mileValue, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mile_value must be a valid number"})
		return
	}

	items, err := a.milhas.Upstream().FetchRanking(c.Request.Context(), mileValue)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch ranking data",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (a Api) SimulateOffersList(c *gin.Context) {
	offers, err := a.milhas.Upstream().FetchOffers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch offers data",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, offers)
}
