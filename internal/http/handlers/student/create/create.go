// Package create реализует HTTP-обработчик создания записи студента.
package create

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// maxImageSize ограничивает размер загружаемого изображения.
const maxImageSize = 5 << 20

// Request — входные данные для создания студента.
type Request struct {
	Firstname string `json:"firstname" validate:"required,min=1,max=50"`
	Lastname  string `json:"lastname" validate:"required,min=1,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=5,max=20"`
	Gender    string `json:"gender" validate:"required,oneof=male female other"`
	Age       int    `json:"age" validate:"required,min=3,max=120"`
}

// StudentService определяет методы бизнес-логики создания студента.
type StudentService interface {
	Create(ctx context.Context, st models.Student) (*models.Student, error)
}

// FileStore определяет метод загрузки изображения студента.
type FileStore interface {
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// Handler обрабатывает HTTP-запросы создания студента.
type Handler struct {
	log      *slog.Logger
	students StudentService
	files    FileStore
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, students StudentService, files FileStore) *Handler {
	return &Handler{
		log:      log,
		students: students,
		files:    files,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создание записи студента
// @Tags Students
// @Accept  multipart/form-data
// @Produce  json
// @Success 201 {object} response.OKResponse "Студент создан"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 409 {object} response.ErrorResponse "Email или телефон уже заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Router /api/v1/students [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.create"

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
			log.Error("failed to upload student image", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to store student image"))
			return
		}
	}

	student, err := h.students.Create(r.Context(), models.Student{
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Email:        req.Email,
		Phone:        req.Phone,
		Gender:       req.Gender,
		Age:          req.Age,
		ProfileImage: imageURL,
	})
	if err != nil {
		log.Error("failed to create student", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("student created", slog.String("uid", student.UID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(student))
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

	req.Firstname = r.FormValue("firstname")
	req.Lastname = r.FormValue("lastname")
	req.Email = r.FormValue("email")
	req.Phone = r.FormValue("phone")
	req.Gender = r.FormValue("gender")
	if raw := r.FormValue("age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return req, nil, "", "", err
		}
		req.Age = age
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
