// Package register реализует HTTP-обработчик регистрации новых пользователей.
//
// Запрос принимается как multipart/form-data, чтобы вместе с полями профиля
// можно было загрузить изображение. Обычный JSON без изображения тоже
// поддерживается.
package register

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/studentms/studentms/internal/http/middlewarectx"
	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
	"github.com/studentms/studentms/internal/services/auth"
)

// maxImageSize ограничивает размер загружаемого изображения профиля.
const maxImageSize = 5 << 20

// Request — входные данные для регистрации.
type Request struct {
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Phone    string   `json:"phone" validate:"omitempty,min=5,max=20"`
	Age      *int     `json:"age" validate:"omitempty,min=18"`
	Gender   string   `json:"gender" validate:"omitempty,oneof=male female other"`
	Address  string   `json:"address"`
	Skills   []string `json:"skills"`
}

// AuthService определяет методы бизнес-логики регистрации.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*models.User, string, error)
}

// FileStore определяет метод загрузки изображения профиля.
type FileStore interface {
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	auth     AuthService
	files    FileStore
	tokenTTL time.Duration
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, authService AuthService, files FileStore, tokenTTL time.Duration) *Handler {
	return &Handler{
		log:      log,
		auth:     authService,
		files:    files,
		tokenTTL: tokenTTL,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация нового пользователя
// @Description Создает пользователя, загружает изображение профиля и выпускает сессионный токен
// @Tags Auth
// @Accept  multipart/form-data
// @Produce  json
// @Success 201 {object} response.OKResponse "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 409 {object} response.ErrorResponse "Email или username уже заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Router /api/v1/auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req, image, imageName, imageType, err := decodeRequest(r)
	if err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var imageURL string
	if len(image) > 0 {
		imageURL, err = h.files.UploadBytes(r.Context(), uuid.NewString()+"/"+imageName, image, imageType)
		if err != nil {
			log.Error("failed to upload profile image", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to store profile image"))
			return
		}
	}

	user, token, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        optional(req.Phone),
		Age:          req.Age,
		Gender:       optional(req.Gender),
		Address:      optional(req.Address),
		Skills:       req.Skills,
		ProfileImage: imageURL,
	})
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("register success", slog.String("username", user.Username), slog.String("email", user.Email))
	middlewarectx.SetSessionCookie(w, token, h.tokenTTL)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":  user,
		"token": token,
	}))
}

// decodeRequest разбирает multipart/form-data или JSON-тело запроса.
func decodeRequest(r *http.Request) (Request, []byte, string, string, error) {
	var req Request

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, nil, "", "", err
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return req, nil, "", "", err
	}

	req.Username = r.FormValue("username")
	req.Email = r.FormValue("email")
	req.Password = r.FormValue("password")
	req.Phone = r.FormValue("phone")
	req.Gender = r.FormValue("gender")
	req.Address = r.FormValue("address")
	if raw := r.FormValue("age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return req, nil, "", "", err
		}
		req.Age = &age
	}
	if raw := r.FormValue("skills"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Skills); err != nil {
			req.Skills = strings.Split(raw, ",")
		}
	}

	file, header, err := r.FormFile("profileimage")
	if err == http.ErrMissingFile {
		return req, nil, "", "", nil
	}
	if err != nil {
		return req, nil, "", "", err
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		return req, nil, "", "", err
	}
	return req, data, header.Filename, header.Header.Get("Content-Type"), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
