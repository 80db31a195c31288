package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expirytrack/models"
	"expirytrack/pkg/expiry"
	"expirytrack/pkg/inventory"
	"expirytrack/pkg/llm"
	"expirytrack/pkg/ocr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// gen is the text-generation backend. Tests swap in a stub.
var gen llm.Generator

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/scan", scanHandler)
	authGroup.GET("/products", listProductsHandler)
	authGroup.POST("/products", saveProductHandler)
	authGroup.DELETE("/products/:name", deleteProductHandler)
	authGroup.POST("/products/:name/plan", usagePlanHandler)
	authGroup.POST("/produce", addProduceHandler)
	authGroup.GET("/scans", listScansHandler)
	authGroup.GET("/scans/:id", getScanHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		c.Set("username", username)
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": usernameVal.(string)})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	var user models.User
	if err := db.Where("username = ?", unameVal.(string)).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// storeFor returns the per-user inventory store.
func storeFor(username string) *inventory.Store {
	return inventory.NewStore(filepath.Join(cfg.DataDir, "inventory_"+username+".json"))
}

// scanHandler runs the full extraction pipeline over one product
// label and one expiry label. Extraction never fails the request;
// unreadable images just come back as defaults for the reviewer to
// fix.
func scanHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	productFile, err := c.FormFile("product")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product image missing"})
		return
	}
	expiryFile, err := c.FormFile("expiry")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiry image missing"})
		return
	}
	for _, f := range []*multipart.FileHeader{productFile, expiryFile} {
		if f.Size > 5*1024*1024 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
			return
		}
	}

	productText := runScan(c, user.ID, productFile, ocr.ModeProduct)
	expiryText := runScan(c, user.ID, expiryFile, ocr.ModeExpiry)

	ctx := c.Request.Context()
	facts := llm.ExtractProduct(ctx, gen, productText)

	expiryDate, found := expiry.Parse(expiryText)
	if !found {
		expiryDate = llm.ExtractExpiry(ctx, gen, expiryText)
	}

	c.JSON(http.StatusOK, gin.H{
		"name":         facts.Name,
		"category":     facts.Category,
		"quantity":     facts.Quantity,
		"expiry":       expiryDate,
		"product_text": productText,
		"expiry_text":  expiryText,
	})
}

// runScan saves an uploaded label image, extracts its text and
// records the scan. Recognition failure is recorded, not raised; the
// caller gets an empty string and falls through to model defaults.
func runScan(c *gin.Context, userID uint, file *multipart.FileHeader, mode ocr.Mode) string {
	folder := filepath.Join(cfg.UploadDir, fmt.Sprintf("user_%d", userID))
	fullPath := filepath.Join(folder, file.Filename)
	scan := models.LabelScan{UserID: userID, Kind: string(mode), FileName: file.Filename, StorePath: fullPath}

	if err := os.MkdirAll(folder, 0755); err != nil {
		scan.Failed, scan.Reason = true, "mkdir failed: "+err.Error()
	} else if err := c.SaveUploadedFile(file, fullPath); err != nil {
		scan.Failed, scan.Reason = true, "save failed: "+err.Error()
	}

	var text string
	if !scan.Failed {
		var err error
		text, err = ocr.ExtractFromFile(fullPath, mode)
		if err != nil {
			scan.Failed, scan.Reason = true, err.Error()
		} else if strings.TrimSpace(text) == "" {
			scan.Failed, scan.Reason = true, "no text recognized"
		}
		scan.Text = ocr.NormalizeText(text)
	}
	if err := db.Create(&scan).Error; err != nil {
		log.Printf("label scan record: %v", err)
	}
	return text
}

// saveProductHandler persists one reviewed record. The name is the
// mapping key: saving an existing name replaces the whole record.
func saveProductHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category"`
		Quantity string `json:"quantity"`
		Expiry   string `json:"expiry"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product name required"})
		return
	}
	if !inventory.IsCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	rec := inventory.Record{
		Category:  req.Category,
		Quantity:  req.Quantity,
		Expiry:    req.Expiry,
		AddedDate: expiry.Format(time.Now()),
	}
	if rec.Quantity == "" {
		rec.Quantity = "Unknown"
	}
	if rec.Expiry == "" {
		rec.Expiry = expiry.Unknown
	}
	if !rec.ValidExpiry() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiry must be DD-MM-YYYY or Unknown"})
		return
	}

	store := storeFor(user.Username)
	inv := store.Load()
	inv.Set(name, rec)
	if err := store.Save(inv); err != nil {
		// Non-fatal: the record exists for this session but the file
		// on disk now lags behind.
		log.Printf("inventory save for %s: %v", user.Username, err)
		c.JSON(http.StatusOK, gin.H{"saved": false, "warning": name + " added but save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true, "name": name})
}

// listProductsHandler returns the inventory with computed urgency and
// removal suggestions for expired or depleted items.
func listProductsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	inv := storeFor(user.Username).Load()
	items := inventory.Statuses(inv, time.Now())
	var suggestions []string
	for _, it := range items {
		if it.SuggestRemoval {
			suggestions = append(suggestions, it.Name)
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "remove_suggestions": suggestions})
}

func deleteProductHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	name := c.Param("name")
	store := storeFor(user.Username)
	inv := store.Load()
	if !inv.Delete(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err := store.Save(inv); err != nil {
		log.Printf("inventory save for %s: %v", user.Username, err)
		c.JSON(http.StatusOK, gin.H{"deleted": true, "warning": "removed but save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// addProduceHandler is the fresh-produce flow: no images, typed
// fields only, shelf life estimated by the model and saved without a
// review round-trip.
func addProduceHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category" binding:"required"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product name required"})
		return
	}
	if !inventory.IsProduceCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown produce category"})
		return
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
		return
	}

	now := time.Now()
	est := llm.EstimateShelfLife(c.Request.Context(), gen, name, req.Category, req.Quantity, now)
	rec := inventory.Record{
		Category:  "Fresh Produce",
		Quantity:  fmt.Sprintf("%d units", req.Quantity),
		Expiry:    est.Expiry,
		AddedDate: expiry.Format(now),
	}

	store := storeFor(user.Username)
	inv := store.Load()
	inv.Set(name, rec)
	resp := gin.H{
		"name":        name,
		"days":        est.Days,
		"expiry":      est.Expiry,
		"storage_tip": est.StorageTip,
		"saved":       true,
	}
	if err := store.Save(inv); err != nil {
		log.Printf("inventory save for %s: %v", user.Username, err)
		resp["saved"] = false
		resp["warning"] = name + " added but save failed"
	}
	c.JSON(http.StatusOK, resp)
}

// usagePlanHandler builds the three-perspective plan prompt for one
// product against the rest of the inventory.
func usagePlanHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	name := c.Param("name")
	inv := storeFor(user.Username).Load()
	rec, found := inv.Get(name)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	var req struct {
		Stovetop  bool   `json:"stovetop"`
		Oven      bool   `json:"oven"`
		Microwave bool   `json:"microwave"`
		Skill     string `json:"skill"`
	}
	_ = c.ShouldBindJSON(&req) // all fields optional
	skill := req.Skill
	switch skill {
	case "beginner", "intermediate", "advanced":
	default:
		skill = "intermediate"
	}
	var equipment []string
	if req.Stovetop {
		equipment = append(equipment, "stovetop")
	}
	if req.Oven {
		equipment = append(equipment, "oven")
	}
	if req.Microwave {
		equipment = append(equipment, "microwave")
	}
	var others []string
	for _, n := range inv.Names() {
		if n != name {
			others = append(others, n)
		}
	}

	plan := llm.UsagePlan(c.Request.Context(), gen, llm.PlanRequest{
		Product:       name,
		Category:      rec.Category,
		Quantity:      rec.Quantity,
		Expiry:        rec.Expiry,
		OtherProducts: others,
		Equipment:     equipment,
		Skill:         skill,
	}, time.Now())
	c.JSON(http.StatusOK, gin.H{"product": name, "plan": plan})
}

// listScansHandler returns the user's stored label scans.
func listScansHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var scans []models.LabelScan
	if err := db.Where("user_id = ?", user.ID).Order("id desc").Limit(100).Find(&scans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, scans)
}

// getScanHandler returns a single scan if the caller owns it.
func getScanHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var scan models.LabelScan
	if err := db.First(&scan, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if scan.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, scan)
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Register(req.Username, req.Password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	rt := models.RefreshToken{UserID: userID, TokenHash: hex.EncodeToString(h[:]), ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", hex.EncodeToString(h[:])).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
