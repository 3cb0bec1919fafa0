package queries

// NodeView is the read model for a single idea
type NodeView struct {
	ID        string `json:"id"`
	CreatorID string `json:"creatorId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	ParentID  string `json:"parentId,omitempty"`
	IsRoot    bool   `json:"isRoot"`
	CreatedAt string `json:"createdAt"`
}

// AccountView is the read model for an account summary
type AccountView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Coins     int64  `json:"coins"`
	Level     int    `json:"level"`
	Bio       string `json:"bio,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// TransactionView is the read model for one ledger record
type TransactionView struct {
	ID          string `json:"id"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"`
	Timestamp   string `json:"timestamp"`
}
