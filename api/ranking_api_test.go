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
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milhaspix/milhas/model"
)

func TestSimulateRanking(t *testing.T) {
	router, _ := setupRouter(t)

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder("GET", "http://upstream.test/simulate-ranking",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, []model.RankingItem{
			{MileValue: 15.44, Description: "1º lugar", Position: 1},
		}))

	var items []model.RankingItem
	resp, err := SetUpTestRequest(TestRequest{
		Response: &items,
		Method:   "GET",
		Route:    "/api/simulate-ranking?mile_value=15.5",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Position)
}

func TestSimulateRankingRequiresMileValue(t *testing.T) {
	router, _ := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/api/simulate-ranking",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "mile_value parameter is required", response["error"])
}

func TestSimulateRankingRejectsNonNumeric(t *testing.T) {
	router, _ := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/api/simulate-ranking?mile_value=abc",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "mile_value must be a valid number", response["error"])
}

func TestSimulateRankingUpstreamFailure(t *testing.T) {
	router, _ := setupRouter(t)

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder("GET", "http://upstream.test/simulate-ranking",
		httpmock.NewJsonResponderOrPanic(http.StatusBadRequest, map[string]string{"error": "bad value"}))

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/api/simulate-ranking?mile_value=15.5",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Failed to fetch ranking data", response["error"])
}

func TestSimulateOffersList(t *testing.T) {
	router, _ := setupRouter(t)

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder("GET", "http://upstream.test/simulate-offers-list",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, model.OffersResponse{
			TotalQuantityOffers: 2,
			Offers: []model.Offer{
				{OfferID: "of-1", LoyaltyProgram: "smiles"},
				{OfferID: "of-2", LoyaltyProgram: "latam"},
			},
		}))

	var out model.OffersResponse
	resp, err := SetUpTestRequest(TestRequest{
		Response: &out,
		Method:   "GET",
		Route:    "/api/simulate-offers-list",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, out.TotalQuantityOffers)
	assert.Len(t, out.Offers, 2)
}
