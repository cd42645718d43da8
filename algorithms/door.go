package algorithms

// 문 회전 각도 (도)
const (
	DoorClosedAngle = 0.0
	DoorOpenAngle   = 90.0
)

// DoorTransition - 엣지 트리거 문 상태 전이
//
// 요청 상태가 현재 상태와 같으면 아무것도 하지 않는다.
func DoorTransition(isOpen, requested bool) (next bool, changed bool) {
	if isOpen == requested {
		return isOpen, false
	}
	return requested, true
}

// DoorAngle - 문 상태 → 회전 각도
func DoorAngle(isOpen bool) float64 {
	if isOpen {
		return DoorOpenAngle
	}
	return DoorClosedAngle
}
