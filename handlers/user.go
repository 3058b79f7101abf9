package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell-cms/inkwell/database"
	"github.com/inkwell-cms/inkwell/models"
	"github.com/inkwell-cms/inkwell/utils"
)

func GetUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "User id is invalid")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.Sugar.Errorw("get user failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	utils.Success(c, "Get user successfully", gin.H{"user": user})
}

func GetAuthors(c *gin.Context) {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Users.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.Sugar.Errorw("get authors failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to decode users")
		return
	}

	utils.Success(c, "Get all authors successfully", gin.H{"authors": users})
}

type UpdateProfileRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	NewPassword2    string `json:"newPassword2"`
}

// UpdateProfile edits name, email and optionally the password of the
// authenticated user. Email uniqueness is re-checked when it changes.
func UpdateProfile(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	set := bson.M{"updatedAt": time.Now().Unix()}

	if req.Name != "" {
		set["name"] = req.Name
	}

	if req.Email != "" {
		email := strings.ToLower(req.Email)
		if email != user.Email {
			count, err := database.Users.CountDocuments(ctx, bson.M{"email": email, "_id": bson.M{"$ne": userID}})
			if err != nil {
				utils.Fail(c, http.StatusInternalServerError, "Database error")
				return
			}
			if count > 0 {
				utils.Fail(c, http.StatusBadRequest, "Email already exists")
				return
			}
			set["email"] = email
		}
	}

	if req.NewPassword != "" {
		if !utils.CheckPassword(user.Password, req.CurrentPassword) {
			utils.Fail(c, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		if len(req.NewPassword) < 6 {
			utils.Fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		if req.NewPassword != req.NewPassword2 {
			utils.Fail(c, http.StatusBadRequest, "Passwords do not match")
			return
		}
		hashed, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		set["password"] = hashed
	}

	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
		if database.IsDuplicateKey(err) {
			utils.Fail(c, http.StatusBadRequest, "Email already exists")
			return
		}
		utils.Sugar.Errorw("update profile failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.Success(c, "Profile updated successfully", nil)
}

// ChangeAvatar uploads a new avatar image and swaps it for the previous one.
// The old file is only removed after the user document points at the new one.
func ChangeAvatar(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		fh = nil
	}
	if err := imageValidator.Validate(fh); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	oldName := ""
	if user.Avatar != nil {
		oldName = user.Avatar.StoredName
	}

	file, err := avatarStore.ReplaceWith(fh, oldName, func(f models.StoredFile) error {
		_, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
			"$set": bson.M{"avatar": f, "updatedAt": time.Now().Unix()},
		})
		return err
	})
	if err != nil {
		utils.Sugar.Errorw("change avatar failed", "user", userID.Hex(), "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to change avatar")
		return
	}

	utils.Success(c, "Avatar changed successfully", gin.H{"avatar": file})
}
