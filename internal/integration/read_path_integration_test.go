package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"webnovel/internal/http/handlers"
	"webnovel/internal/service"

	"github.com/gin-gonic/gin"
)

// Covers the content gate on the chapter read path: after a purchase the
// buyer gets full content, while a stranger still sees a locked chapter with
// content null and the price reported.
func TestGetChapter_ContentGatedByEntitlement(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	service.InitJWT("test-secret")

	balanceSvc := service.NewBalanceService(db)
	purchaseSvc := service.NewPurchaseService(db, noopInvalidator())

	buyerID := createUser(t, db)
	strangerID := createUser(t, db)
	chapterID, novelSlug, chapterSlug := createChapter(t, db, true, 50)

	credit(t, balanceSvc, buyerID, 60)
	if _, err := purchaseSvc.PurchaseChapter(ctx, buyerID, chapterID); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewHandler(db, noopInvalidator(), nil, time.Minute)
	r.GET("/novels/:slug/chapters/:chapterSlug", h.GetChapter)

	srv := httptest.NewServer(r)
	defer srv.Close()

	get := func(userID int64) map[string]interface{} {
		t.Helper()
		req, err := http.NewRequest("GET", srv.URL+"/novels/"+novelSlug+"/chapters/"+chapterSlug, nil)
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		if userID != 0 {
			token, err := service.GenerateJWT(userID)
			if err != nil {
				t.Fatalf("generate token: %v", err)
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}

		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", res.StatusCode)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return body
	}

	buyerView := get(buyerID)
	if buyerView["unlocked"] != true {
		t.Errorf("buyer unlocked = %v, want true", buyerView["unlocked"])
	}
	if buyerView["content"] != "full chapter text" {
		t.Errorf("buyer content = %v, want full chapter text", buyerView["content"])
	}

	strangerView := get(strangerID)
	if strangerView["unlocked"] != false {
		t.Errorf("stranger unlocked = %v, want false", strangerView["unlocked"])
	}
	if strangerView["content"] != nil {
		t.Errorf("stranger content = %v, want null", strangerView["content"])
	}
	if strangerView["is_locked"] != true || strangerView["price_coins"] != float64(50) {
		t.Errorf("stranger view = %v, want locked with price 50", strangerView)
	}

	anonView := get(0)
	if anonView["content"] != nil {
		t.Errorf("anonymous content = %v, want null", anonView["content"])
	}
}
