// Package i18n holds the user-facing message catalog. Error kinds live in
// apperror; this package only turns message keys into text for the language
// the client asked for in Accept-Language.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	LoginSuccess            = "login.success"
	LoginRequired           = "login.required"
	LoginUsernameTooShort   = "login.username_too_short"
	LoginUsernameDigit      = "login.username_starts_with_digit"
	LoginPasswordTooShort   = "login.password_too_short"
	LoginInvalidCredentials = "login.invalid_credentials"
	LoginFailed             = "login.failed"

	RegisterSuccess     = "register.success"
	RegisterInvalidPnr  = "register.invalid_pnr"
	RegisterInvalidMail = "register.invalid_email"
	RegisterUserExists  = "register.user_exists"
	RegisterFailed      = "register.failed"

	AuthTokenRequired = "auth.token_required"
	AuthTokenInvalid  = "auth.token_invalid"
	AuthRoleForbidden = "auth.role_forbidden"

	ApplicationRequiredFields      = "application.required_fields"
	ApplicationInvalidRole         = "application.invalid_role"
	ApplicationInvalidUser         = "application.invalid_user"
	ApplicationInvalidExperience   = "application.invalid_experience"
	ApplicationNegativeExperience  = "application.negative_experience"
	ApplicationInvalidDates        = "application.invalid_dates"
	ApplicationIdentityMismatch    = "application.identity_mismatch"
	ApplicationSubmitted           = "application.submitted"
	ApplicationSubmitFailed        = "application.submit_failed"
	ApplicationTooSoon             = "application.too_soon"
	ApplicationCompetencesFailed   = "application.competences_failed"
	ApplicationListFailed          = "application.list_failed"
	ApplicationInvalidStatus       = "application.invalid_status"
	ApplicationInvalidCompetenceID = "application.invalid_competence"
	ApplicationStatusUpdated       = "application.status_updated"
	ApplicationStatusFailed        = "application.status_failed"

	RequestInvalidBody = "request.invalid_body"
	RequestTooMany     = "request.too_many"
	ValidationInvalid  = "validation.invalid"
	Internal           = "internal"
)

var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.French,
	language.Turkish,
}

var (
	matcher = language.NewMatcher(supported)
	cat     = catalog.NewBuilder(catalog.Fallback(language.English))
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		LoginSuccess:                   "Login successful",
		LoginRequired:                  "Username and password are required.",
		LoginUsernameTooShort:          "Username must be at least 3 characters long.",
		LoginUsernameDigit:             "Username cannot start with a digit.",
		LoginPasswordTooShort:          "Password must be at least 6 characters long.",
		LoginInvalidCredentials:        "Invalid credentials",
		LoginFailed:                    "An error occurred during login.",
		RegisterSuccess:                "Registration successful",
		RegisterInvalidPnr:             "PNR must be a number.",
		RegisterInvalidMail:            "Please enter a valid email address.",
		RegisterUserExists:             "User already exists",
		RegisterFailed:                 "An error occurred during registration.",
		AuthTokenRequired:              "Authorization required",
		AuthTokenInvalid:               "Token is invalid or has expired",
		AuthRoleForbidden:              "You are not allowed to perform this action.",
		ApplicationRequiredFields:      "Competences, availability, and user data are required.",
		ApplicationInvalidRole:         "Only applicants can submit applications.",
		ApplicationInvalidUser:         "A valid user ID is required.",
		ApplicationInvalidExperience:   "Years of experience must be a number.",
		ApplicationNegativeExperience:  "Years of experience cannot be negative.",
		ApplicationInvalidDates:        "The start date cannot be in the past and must be before the end date.",
		ApplicationIdentityMismatch:    "You can only submit your own application.",
		ApplicationSubmitted:           "Application submitted successfully",
		ApplicationSubmitFailed:        "An error occurred while submitting the application",
		ApplicationTooSoon:             "Please wait before submitting another application.",
		ApplicationCompetencesFailed:   "An error occurred while fetching competences",
		ApplicationListFailed:          "An error occurred while fetching applications",
		ApplicationInvalidStatus:       "Status must be unhandled, accepted or rejected.",
		ApplicationInvalidCompetenceID: "A valid competence ID is required.",
		ApplicationStatusUpdated:       "Application status updated successfully",
		ApplicationStatusFailed:        "An error occurred while setting application status",
		RequestInvalidBody:             "Invalid request body",
		RequestTooMany:                 "Too many requests, please try again later.",
		ValidationInvalid:              "Invalid input",
		Internal:                       "An unexpected error occurred",
	},
	language.Spanish: {
		LoginSuccess:                   "Inicio de sesión correcto",
		LoginRequired:                  "El nombre de usuario y la contraseña son obligatorios.",
		LoginUsernameTooShort:          "El nombre de usuario debe tener al menos 3 caracteres.",
		LoginUsernameDigit:             "El nombre de usuario no puede empezar con un dígito.",
		LoginPasswordTooShort:          "La contraseña debe tener al menos 6 caracteres.",
		LoginInvalidCredentials:        "Credenciales inválidas",
		LoginFailed:                    "Se produjo un error al iniciar sesión.",
		RegisterSuccess:                "Registro completado",
		RegisterInvalidPnr:             "El número personal debe ser numérico.",
		RegisterInvalidMail:            "Introduzca una dirección de correo válida.",
		RegisterUserExists:             "El usuario ya existe",
		RegisterFailed:                 "Se produjo un error durante el registro.",
		AuthTokenRequired:              "Se requiere autorización",
		AuthTokenInvalid:               "El token no es válido o ha caducado",
		AuthRoleForbidden:              "No tiene permiso para realizar esta acción.",
		ApplicationRequiredFields:      "Las competencias, la disponibilidad y los datos del usuario son obligatorios.",
		ApplicationInvalidRole:         "Solo los solicitantes pueden enviar solicitudes.",
		ApplicationInvalidUser:         "Se requiere un ID de usuario válido.",
		ApplicationInvalidExperience:   "Los años de experiencia deben ser un número.",
		ApplicationNegativeExperience:  "Los años de experiencia no pueden ser negativos.",
		ApplicationInvalidDates:        "La fecha de inicio no puede estar en el pasado y debe ser anterior a la fecha de fin.",
		ApplicationIdentityMismatch:    "Solo puede enviar su propia solicitud.",
		ApplicationSubmitted:           "Solicitud enviada correctamente",
		ApplicationSubmitFailed:        "Se produjo un error al enviar la solicitud",
		ApplicationTooSoon:             "Espere antes de enviar otra solicitud.",
		ApplicationCompetencesFailed:   "Se produjo un error al obtener las competencias",
		ApplicationListFailed:          "Se produjo un error al obtener las solicitudes",
		ApplicationInvalidStatus:       "El estado debe ser unhandled, accepted o rejected.",
		ApplicationInvalidCompetenceID: "Se requiere un ID de competencia válido.",
		ApplicationStatusUpdated:       "Estado de la solicitud actualizado",
		ApplicationStatusFailed:        "Se produjo un error al actualizar el estado de la solicitud",
		RequestInvalidBody:             "Cuerpo de la petición no válido",
		RequestTooMany:                 "Demasiadas peticiones, inténtelo más tarde.",
		ValidationInvalid:              "Datos no válidos",
		Internal:                       "Se produjo un error inesperado",
	},
	language.French: {
		LoginSuccess:                   "Connexion réussie",
		LoginRequired:                  "Le nom d'utilisateur et le mot de passe sont obligatoires.",
		LoginUsernameTooShort:          "Le nom d'utilisateur doit contenir au moins 3 caractères.",
		LoginUsernameDigit:             "Le nom d'utilisateur ne peut pas commencer par un chiffre.",
		LoginPasswordTooShort:          "Le mot de passe doit contenir au moins 6 caractères.",
		LoginInvalidCredentials:        "Identifiants invalides",
		LoginFailed:                    "Une erreur est survenue lors de la connexion.",
		RegisterSuccess:                "Inscription réussie",
		RegisterInvalidPnr:             "Le numéro personnel doit être numérique.",
		RegisterInvalidMail:            "Veuillez saisir une adresse e-mail valide.",
		RegisterUserExists:             "L'utilisateur existe déjà",
		RegisterFailed:                 "Une erreur est survenue lors de l'inscription.",
		AuthTokenRequired:              "Autorisation requise",
		AuthTokenInvalid:               "Le jeton est invalide ou a expiré",
		AuthRoleForbidden:              "Vous n'êtes pas autorisé à effectuer cette action.",
		ApplicationRequiredFields:      "Les compétences, les disponibilités et les données utilisateur sont obligatoires.",
		ApplicationInvalidRole:         "Seuls les candidats peuvent soumettre une candidature.",
		ApplicationInvalidUser:         "Un identifiant utilisateur valide est requis.",
		ApplicationInvalidExperience:   "Les années d'expérience doivent être un nombre.",
		ApplicationNegativeExperience:  "Les années d'expérience ne peuvent pas être négatives.",
		ApplicationInvalidDates:        "La date de début ne peut pas être passée et doit précéder la date de fin.",
		ApplicationIdentityMismatch:    "Vous ne pouvez soumettre que votre propre candidature.",
		ApplicationSubmitted:           "Candidature soumise avec succès",
		ApplicationSubmitFailed:        "Une erreur est survenue lors de la soumission de la candidature",
		ApplicationTooSoon:             "Veuillez patienter avant de soumettre une autre candidature.",
		ApplicationCompetencesFailed:   "Une erreur est survenue lors de la récupération des compétences",
		ApplicationListFailed:          "Une erreur est survenue lors de la récupération des candidatures",
		ApplicationInvalidStatus:       "Le statut doit être unhandled, accepted ou rejected.",
		ApplicationInvalidCompetenceID: "Un identifiant de compétence valide est requis.",
		ApplicationStatusUpdated:       "Statut de la candidature mis à jour",
		ApplicationStatusFailed:        "Une erreur est survenue lors de la mise à jour du statut",
		RequestInvalidBody:             "Corps de requête invalide",
		RequestTooMany:                 "Trop de requêtes, veuillez réessayer plus tard.",
		ValidationInvalid:              "Données invalides",
		Internal:                       "Une erreur inattendue est survenue",
	},
	language.Turkish: {
		LoginSuccess:                   "Giriş başarılı",
		LoginRequired:                  "Kullanıcı adı ve şifre zorunludur.",
		LoginUsernameTooShort:          "Kullanıcı adı en az 3 karakter olmalıdır.",
		LoginUsernameDigit:             "Kullanıcı adı bir rakamla başlayamaz.",
		LoginPasswordTooShort:          "Şifre en az 6 karakter olmalıdır.",
		LoginInvalidCredentials:        "Geçersiz kimlik bilgileri",
		LoginFailed:                    "Giriş sırasında bir hata oluştu.",
		RegisterSuccess:                "Kayıt başarılı",
		RegisterInvalidPnr:             "Kimlik numarası sayı olmalıdır.",
		RegisterInvalidMail:            "Lütfen geçerli bir e-posta adresi girin.",
		RegisterUserExists:             "Kullanıcı zaten mevcut",
		RegisterFailed:                 "Kayıt sırasında bir hata oluştu.",
		AuthTokenRequired:              "Yetkilendirme gerekli",
		AuthTokenInvalid:               "Belirteç geçersiz veya süresi dolmuş",
		AuthRoleForbidden:              "Bu işlemi yapmaya yetkiniz yok.",
		ApplicationRequiredFields:      "Yetkinlikler, uygunluk ve kullanıcı bilgileri zorunludur.",
		ApplicationInvalidRole:         "Yalnızca adaylar başvuru gönderebilir.",
		ApplicationInvalidUser:         "Geçerli bir kullanıcı kimliği gereklidir.",
		ApplicationInvalidExperience:   "Deneyim yılı bir sayı olmalıdır.",
		ApplicationNegativeExperience:  "Deneyim yılı negatif olamaz.",
		ApplicationInvalidDates:        "Başlangıç tarihi geçmişte olamaz ve bitiş tarihinden önce olmalıdır.",
		ApplicationIdentityMismatch:    "Yalnızca kendi başvurunuzu gönderebilirsiniz.",
		ApplicationSubmitted:           "Başvuru başarıyla gönderildi",
		ApplicationSubmitFailed:        "Başvuru gönderilirken bir hata oluştu",
		ApplicationTooSoon:             "Yeni bir başvuru göndermeden önce lütfen bekleyin.",
		ApplicationCompetencesFailed:   "Yetkinlikler alınırken bir hata oluştu",
		ApplicationListFailed:          "Başvurular alınırken bir hata oluştu",
		ApplicationInvalidStatus:       "Durum unhandled, accepted veya rejected olmalıdır.",
		ApplicationInvalidCompetenceID: "Geçerli bir yetkinlik kimliği gereklidir.",
		ApplicationStatusUpdated:       "Başvuru durumu güncellendi",
		ApplicationStatusFailed:        "Başvuru durumu güncellenirken bir hata oluştu",
		RequestInvalidBody:             "Geçersiz istek gövdesi",
		RequestTooMany:                 "Çok fazla istek, lütfen daha sonra tekrar deneyin.",
		ValidationInvalid:              "Geçersiz veri",
		Internal:                       "Beklenmeyen bir hata oluştu",
	},
}

func init() {
	for tag, messages := range translations {
		for key, text := range messages {
			if err := cat.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}
}

// Match picks the supported language closest to an Accept-Language header.
// An empty or unparsable header yields English.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, index, _ := matcher.Match(tags...)
	return supported[index]
}

// Translate returns the text for key in the language matched from
// acceptLanguage. Unknown keys are returned unchanged.
func Translate(acceptLanguage, key string) string {
	return message.NewPrinter(Match(acceptLanguage), message.Catalog(cat)).Sprintf(key)
}
