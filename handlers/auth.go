package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkwell-cms/inkwell/database"
	"github.com/inkwell-cms/inkwell/models"
	"github.com/inkwell-cms/inkwell/utils"
)

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Please enter all fields")
		return
	}

	if len(req.Password) < 6 {
		utils.Fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	if req.Password != req.Password2 {
		utils.Fail(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	email := strings.ToLower(req.Email)

	ctx, cancel := dbCtx()
	defer cancel()

	var existing models.User
	err := database.Users.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		utils.Fail(c, http.StatusBadRequest, "Email already exists")
		return
	}
	if err != mongo.ErrNoDocuments {
		utils.Sugar.Errorw("register: email lookup failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	now := time.Now().Unix()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     email,
		Password:  hashed,
		Posts:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		// The unique index backstops the pre-check under concurrent registers.
		if database.IsDuplicateKey(err) {
			utils.Fail(c, http.StatusBadRequest, "Email already exists")
			return
		}
		utils.Sugar.Errorw("register: insert failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex())
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.Created(c, "User registered successfully", gin.H{
		"user":  user,
		"token": token,
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Please enter all fields")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		utils.Sugar.Errorw("login: lookup failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		utils.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex())
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.Success(c, "Login successful", gin.H{
		"token":  token,
		"userId": user.ID.Hex(),
	})
}
