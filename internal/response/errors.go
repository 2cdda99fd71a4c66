package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrTryoutLocked ErrCode = "TRYOUT_LOCKED"

	// ─── Tryout timing ─────────────────────────────────────────────────
	ErrTryoutNotStarted ErrCode = "TRYOUT_NOT_STARTED"
	ErrTryoutEnded      ErrCode = "TRYOUT_ENDED"

	// ─── Session ───────────────────────────────────────────────────────
	ErrNoQuestions     ErrCode = "NO_QUESTIONS"
	ErrSessionNotFound ErrCode = "SESSION_NOT_FOUND"
	ErrSubmitInFlight  ErrCode = "SUBMIT_IN_FLIGHT"
	ErrResultNotFound  ErrCode = "RESULT_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrPersistence ErrCode = "PERSISTENCE_ERROR"
	ErrInternal    ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidID:
		return "Format ID tidak valid."
	case ErrInvalidPayload:
		return "Payload permintaan tidak valid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Sumber daya tidak ditemukan."
	case ErrTryoutLocked:
		return "Tryout tidak dapat diubah karena sudah ada peserta."

	// ─── Tryout timing ─────────────────────────────────────────────────
	case ErrTryoutNotStarted:
		return "Tryout ini belum dimulai."
	case ErrTryoutEnded:
		return "Tryout ini sudah berakhir."

	// ─── Session ───────────────────────────────────────────────────────
	case ErrNoQuestions:
		return "Tryout ini belum memiliki soal."
	case ErrSessionNotFound:
		return "Tidak ada sesi aktif untuk tryout ini."
	case ErrSubmitInFlight:
		return "Pengumpulan jawaban sedang diproses."
	case ErrResultNotFound:
		return "Hasil tryout belum tersedia."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Terlalu banyak permintaan. Silakan coba lagi nanti."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrPersistence:
		return "Gagal menyimpan data. Silakan coba lagi."
	case ErrInternal:
		return "Terjadi kesalahan server internal."
	default:
		return "Terjadi kesalahan yang tidak terduga."
	}
}
