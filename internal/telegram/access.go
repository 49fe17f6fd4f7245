package telegram

// DeniedText отправляется пользователям вне списка администраторов.
const DeniedText = "⛔ У вас нет доступа к этому боту."

// AccessGate пропускает только перечисленных администраторов.
type AccessGate struct {
	allowed map[int64]struct{}
}

func NewAccessGate(ids []int64) *AccessGate {
	allowed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	return &AccessGate{allowed: allowed}
}

func (g *AccessGate) Allowed(userID int64) bool {
	if g == nil || len(g.allowed) == 0 {
		return false
	}
	_, ok := g.allowed[userID]
	return ok
}
