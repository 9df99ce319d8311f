package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Covers postgres ("duplicate key ... unique constraint") and sqlite
// ("UNIQUE constraint failed"), which is what the test database returns.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 보안상 민감한 정보는 숨기되, 사용자가 문제를 해결할 수 있는 정보 제공
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	if IsUniqueViolation(err) {
		return parseDuplicateKeyError(errStr)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "연결된 데이터가 있어 처리할 수 없습니다",
		}
	}

	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "필수 항목이 누락되었습니다",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "외부 서비스 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// 주문번호 중복: 같은 날 동시 주문으로 생길 수 있음 (재시도 대상)
	if strings.Contains(errLower, "order_number") {
		return ErrorInfo{
			Code:    OrderNumberCollision,
			Message: "주문번호 생성에 실패했습니다. 다시 시도해주세요",
		}
	}

	if strings.Contains(errLower, "sku") {
		return ErrorInfo{
			Code:    ProductSKUExists,
			Message: "이미 존재하는 SKU입니다",
		}
	}

	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "이미 사용 중인 이메일입니다",
		}
	}

	// 사용자당 장바구니 하나 (user_id unique)
	if strings.Contains(errLower, "carts") && strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "이미 장바구니가 존재합니다",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 데이터입니다",
	}
}

func getNotFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "product"):
		return "상품을 찾을 수 없습니다"
	case strings.Contains(context, "order"):
		return "주문을 찾을 수 없습니다"
	case strings.Contains(context, "cart"):
		return "장바구니 항목을 찾을 수 없습니다"
	case strings.Contains(context, "user"):
		return "사용자를 찾을 수 없습니다"
	default:
		return "요청한 데이터를 찾을 수 없습니다"
	}
}

func getDefaultErrorMessage(context string) string {
	switch {
	case strings.Contains(context, "create"):
		return "생성에 실패했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(context, "update"):
		return "수정에 실패했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(context, "delete"):
		return "삭제에 실패했습니다. 잠시 후 다시 시도해주세요"
	default:
		return "요청 처리에 실패했습니다. 잠시 후 다시 시도해주세요"
	}
}
