package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // 접근 권한 없음
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // 관리자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // 범위 초과
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 상품 (PRODUCT_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"     // 상품 없음
	ProductInactive     = "PRODUCT_INACTIVE"      // 판매 중지된 상품
	ProductSKUExists    = "PRODUCT_SKU_EXISTS"    // SKU 중복
	ProductOutOfStock   = "PRODUCT_OUT_OF_STOCK"  // 재고 부족

	// ==================== 장바구니 (CART_) ====================
	CartLineNotFound    = "CART_LINE_NOT_FOUND"   // 장바구니 항목 없음
	CartInvalidQuantity = "CART_INVALID_QUANTITY" // 수량 범위 초과 (1-10)
	CartEmpty           = "CART_EMPTY"            // 장바구니 비어있음

	// ==================== 주문 (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"           // 주문 없음
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"  // 허용되지 않는 상태 전환
	OrderInvalidStatus     = "ORDER_INVALID_STATUS"      // 잘못된 주문 상태 값
	OrderNumberCollision   = "ORDER_NUMBER_COLLISION"    // 주문번호 충돌
	OrderInvalidPayment    = "ORDER_INVALID_PAYMENT"     // 잘못된 결제 방법/정보

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
