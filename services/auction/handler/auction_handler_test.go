package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adslot-auction/internal/auctionerrors"
	"adslot-auction/internal/engine"
	model "adslot-auction/internal/models"
	"adslot-auction/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupHandlerRouter(t *testing.T) (*MockAuctionServiceInterface, *gin.Engine) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions", h.CreateAuctionHandler)
	router.GET("/auctions", h.ListAuctionsHandler)
	router.GET("/auctions/:auction_id", h.GetAuctionHandler)
	router.GET("/auctions/:auction_id/bids", h.GetAuctionBidsHandler)
	router.POST("/auctions/:auction_id/open", h.OpenAuctionHandler)
	router.POST("/auctions/:auction_id/bids", h.PlaceBidHandler)
	router.POST("/auctions/:auction_id/cancel", h.CancelAuctionHandler)
	return mockService, router
}

func doJSON(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

func sampleAuction(id string, status model.AuctionStatus) model.Auction {
	now := time.Now().UTC()
	return model.Auction{
		AuctionID:        id,
		SellerID:         "seller1",
		AdSlot:           model.AdSlotDetails{Platform: "twitch", Category: "gaming", Region: "eu", DurationSeconds: 30},
		Currency:         "USD",
		StartingBid:      100,
		MinimumIncrement: 10,
		ReservePrice:     150,
		CurrentBid:       100,
		Status:           status,
		StartTime:        now,
		ExpirationTime:   now.Add(time.Hour),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Test CreateAuctionHandler
func TestCreateAuctionHandler(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	validReq := helpers.CreateAuctionRequest{
		SellerID:         "seller1",
		AdSlot:           model.AdSlotDetails{Platform: "twitch", Category: "gaming", Region: "eu", DurationSeconds: 30},
		Currency:         "USD",
		StartingBid:      100,
		MinimumIncrement: 10,
		ReservePrice:     150,
		StartTime:        now,
		ExpirationTime:   now.Add(time.Hour),
	}

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockAuctionServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success",
			requestBody: validReq,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					CreateAuction(gomock.Any(), gomock.Any()).
					Return(sampleAuction(uuid.NewString(), model.StatusPending), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "auction created successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{seller_id: missing quotes}`,
			mockSetup:      func(m *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "missing_seller",
			requestBody: func() helpers.CreateAuctionRequest {
				r := validReq
				r.SellerID = ""
				return r
			}(),
			mockSetup:      func(m *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "engine_rejects_invalid_auction",
			requestBody: validReq,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					CreateAuction(gomock.Any(), gomock.Any()).
					Return(model.Auction{}, fmt.Errorf("bad spec: %w", auctionerrors.ErrInvalidAuction))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid auction details",
		},
		{
			name:        "engine_rejects_fraud",
			requestBody: validReq,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					CreateAuction(gomock.Any(), gomock.Any()).
					Return(model.Auction{}, fmt.Errorf("risky seller: %w", auctionerrors.ErrFraudSuspected))
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "rejected on fraud suspicion",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			mockService, router := setupHandlerRouter(t)
			tc.mockSetup(mockService)

			resp, w := doJSON(t, router, http.MethodPost, "/auctions", tc.requestBody)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Equal(t, tc.expectedMsg, resp["message"])

			if tc.expectedStatus == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.NotEmpty(t, data["auction_id"])
				require.Equal(t, "pending", data["status"])
				require.Equal(t, 100.0, data["current_bid"])
			}
		})
	}
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockAuctionServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success",
			requestBody: helpers.PlaceBidRequest{UserID: "user1", Amount: 110},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "a1", "user1", 110.0).
					Return(model.Bid{
						BidID:     uuid.NewString(),
						AuctionID: "a1",
						UserID:    "user1",
						Amount:    110,
						CreatedAt: now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid accepted successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{user_id: "user1"`,
			mockSetup:      func(m *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_user",
			requestBody:    helpers.PlaceBidRequest{UserID: "", Amount: 110},
			mockSetup:      func(m *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "zero_amount",
			requestBody:    helpers.PlaceBidRequest{UserID: "user1", Amount: 0},
			mockSetup:      func(m *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "bid_too_low",
			requestBody: helpers.PlaceBidRequest{UserID: "user1", Amount: 105},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "a1", "user1", 105.0).
					Return(model.Bid{}, fmt.Errorf("below increment: %w", auctionerrors.ErrBidTooLow))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid amount too low",
		},
		{
			name:        "auction_closed",
			requestBody: helpers.PlaceBidRequest{UserID: "user1", Amount: 110},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "a1", "user1", 110.0).
					Return(model.Bid{}, fmt.Errorf("closed: %w", auctionerrors.ErrAuctionNotOpen))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "auction not open for bidding",
		},
		{
			name:        "contention_exceeded",
			requestBody: helpers.PlaceBidRequest{UserID: "user1", Amount: 110},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "a1", "user1", 110.0).
					Return(model.Bid{}, fmt.Errorf("hot auction: %w", auctionerrors.ErrContentionExceeded))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "too much bid contention, try again",
		},
		{
			name:        "fraud_suspected",
			requestBody: helpers.PlaceBidRequest{UserID: "user1", Amount: 110},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "a1", "user1", 110.0).
					Return(model.Bid{}, fmt.Errorf("risk score high: %w", auctionerrors.ErrFraudSuspected))
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "rejected on fraud suspicion",
		},
		{
			name:        "auction_not_found",
			requestBody: helpers.PlaceBidRequest{UserID: "user1", Amount: 110},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "a1", "user1", 110.0).
					Return(model.Bid{}, fmt.Errorf("lookup: %w", auctionerrors.ErrAuctionNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			mockService, router := setupHandlerRouter(t)
			tc.mockSetup(mockService)

			resp, w := doJSON(t, router, http.MethodPost, "/auctions/a1/bids", tc.requestBody)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Equal(t, tc.expectedMsg, resp["message"])

			if tc.expectedStatus == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.Equal(t, "a1", data["auction_id"])
				require.Equal(t, "user1", data["user_id"])
				require.Equal(t, 110.0, data["amount"])

				_, err := time.Parse(time.RFC3339, data["created_at"].(string))
				require.NoError(t, err)
			}
		})
	}
}

// Test GetAuctionHandler
func TestGetAuctionHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockService, router := setupHandlerRouter(t)
		mockService.EXPECT().
			GetAuction(gomock.Any(), "a1").
			Return(sampleAuction("a1", model.StatusActive), nil)

		resp, w := doJSON(t, router, http.MethodGet, "/auctions/a1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].(map[string]any)
		require.Equal(t, "a1", data["auction_id"])
		require.Equal(t, "active", data["status"])
	})

	t.Run("not_found", func(t *testing.T) {
		mockService, router := setupHandlerRouter(t)
		mockService.EXPECT().
			GetAuction(gomock.Any(), "missing").
			Return(model.Auction{}, fmt.Errorf("lookup: %w", auctionerrors.ErrAuctionNotFound))

		resp, w := doJSON(t, router, http.MethodGet, "/auctions/missing", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "auction not found", resp["message"])
	})
}

// Test ListAuctionsHandler
func TestListAuctionsHandler(t *testing.T) {
	t.Run("passes_filters_through", func(t *testing.T) {
		mockService, router := setupHandlerRouter(t)
		mockService.EXPECT().
			ListActiveAuctions(gomock.Any(), engine.ListFilter{Region: "eu", Category: "gaming", Limit: 5, Offset: 10}).
			Return([]model.Auction{sampleAuction("a1", model.StatusActive)}, nil)

		resp, w := doJSON(t, router, http.MethodGet, "/auctions?region=eu&category=gaming&limit=5&offset=10", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].([]any)
		require.Len(t, data, 1)
	})

	t.Run("empty_result_is_empty_array", func(t *testing.T) {
		mockService, router := setupHandlerRouter(t)
		mockService.EXPECT().
			ListActiveAuctions(gomock.Any(), engine.ListFilter{}).
			Return([]model.Auction{}, nil)

		resp, w := doJSON(t, router, http.MethodGet, "/auctions", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resp["data"])
		require.Empty(t, resp["data"].([]any))
	})
}

// Test GetAuctionBidsHandler
func TestGetAuctionBidsHandler(t *testing.T) {
	t.Run("returns_full_history", func(t *testing.T) {
		mockService, router := setupHandlerRouter(t)
		a := sampleAuction("a1", model.StatusActive)
		a.BidHistory = []model.Bid{
			{BidID: "b1", AuctionID: "a1", UserID: "u1", Amount: 110, CreatedAt: time.Now().UTC()},
			{BidID: "b2", AuctionID: "a1", UserID: "u2", Amount: 130, CreatedAt: time.Now().UTC()},
		}
		a.CurrentBid = 130
		mockService.EXPECT().GetAuction(gomock.Any(), "a1").Return(a, nil)

		resp, w := doJSON(t, router, http.MethodGet, "/auctions/a1/bids", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].([]any)
		require.Len(t, data, 2)
		first := data[0].(map[string]any)
		require.Equal(t, "b1", first["bid_id"])
		require.Equal(t, 110.0, first["amount"])
	})

	t.Run("no_bids_is_empty_array", func(t *testing.T) {
		mockService, router := setupHandlerRouter(t)
		mockService.EXPECT().GetAuction(gomock.Any(), "a1").Return(sampleAuction("a1", model.StatusActive), nil)

		resp, w := doJSON(t, router, http.MethodGet, "/auctions/a1/bids", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, resp["data"].([]any))
	})
}

// Test OpenAuctionHandler
func TestOpenAuctionHandler(t *testing.T) {
	t.Run("opens", func(t *testing.T) {
		mockService, router := setupHandlerRouter(t)
		mockService.EXPECT().
			OpenAuction(gomock.Any(), "a1").
			Return(sampleAuction("a1", model.StatusActive), nil)

		resp, w := doJSON(t, router, http.MethodPost, "/auctions/a1/open", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "auction opened successfully", resp["message"])
	})

	t.Run("not_openable", func(t *testing.T) {
		mockService, router := setupHandlerRouter(t)
		mockService.EXPECT().
			OpenAuction(gomock.Any(), "a1").
			Return(model.Auction{}, fmt.Errorf("already done: %w", auctionerrors.ErrAuctionNotOpen))

		resp, w := doJSON(t, router, http.MethodPost, "/auctions/a1/open", nil)
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "auction not open for bidding", resp["message"])
	})
}

// Test CancelAuctionHandler
func TestCancelAuctionHandler(t *testing.T) {
	t.Run("cancels", func(t *testing.T) {
		mockService, router := setupHandlerRouter(t)
		mockService.EXPECT().
			CancelAuction(gomock.Any(), "a1").
			Return(sampleAuction("a1", model.StatusCanceled), nil)

		resp, w := doJSON(t, router, http.MethodPost, "/auctions/a1/cancel", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].(map[string]any)
		require.Equal(t, "canceled", data["status"])
	})

	t.Run("cannot_cancel_completed", func(t *testing.T) {
		mockService, router := setupHandlerRouter(t)
		mockService.EXPECT().
			CancelAuction(gomock.Any(), "a1").
			Return(model.Auction{}, fmt.Errorf("completed: %w", auctionerrors.ErrConflict))

		resp, w := doJSON(t, router, http.MethodPost, "/auctions/a1/cancel", nil)
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "auction state changed concurrently", resp["message"])
	})
}
