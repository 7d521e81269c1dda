// Package update реализует HTTP-обработчик частичного обновления профиля.
//
// Принимает multipart/form-data с новым изображением профиля либо
// обычный JSON. Обычный пользователь может обновлять только себя,
// администратор — любого.
package update

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/studentms/studentms/internal/http/middlewarectx"
	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// maxImageSize ограничивает размер загружаемого изображения профиля.
const maxImageSize = 5 << 20

// Request — входные данные обновления. nil-поля не изменяются.
type Request struct {
	Username *string  `json:"username" validate:"omitempty,min=3,max=50"`
	Phone    *string  `json:"phone" validate:"omitempty,min=5,max=20"`
	Age      *int     `json:"age" validate:"omitempty,min=18"`
	Gender   *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Address  *string  `json:"address"`
	Skills   []string `json:"skills"`
}

// UserService определяет методы бизнес-логики обновления профиля.
type UserService interface {
	Update(ctx context.Context, uid string, upd models.UserUpdate, image []byte, imageName, imageType string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы обновления профиля.
type Handler struct {
	log      *slog.Logger
	users    UserService
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, users UserService) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Частичное обновление профиля пользователя
// @Tags Users
// @Accept  multipart/form-data
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.OKResponse "Обновленный профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 403 {object} response.ErrorResponse "Чужой профиль"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Router /api/v1/users/{uid} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	uid := chi.URLParam(r, "uid")
	if actor.Role != models.RoleAdmin && actor.UID != uid {
		log.Error("access denied", slog.String("actor", actor.UID), slog.String("uid", uid))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	}

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

	user, err := h.users.Update(r.Context(), uid, models.UserUpdate{
		Username: req.Username,
		Phone:    req.Phone,
		Age:      req.Age,
		Gender:   req.Gender,
		Address:  req.Address,
		Skills:   req.Skills,
	}, image, imageName, imageType)
	if err != nil {
		log.Error("failed to update user", slog.String("uid", uid), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("user updated", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(user))
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

	if raw := r.FormValue("payload"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return req, nil, "", "", err
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
