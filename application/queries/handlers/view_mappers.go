package handlers

import (
	"time"

	"universe-backend/application/queries"
	"universe-backend/domain/core/entities"
)

func toNodeView(node *entities.Node) queries.NodeView {
	view := queries.NodeView{
		ID:        node.ID().String(),
		CreatorID: node.CreatorID(),
		Title:     node.Content().Title(),
		Body:      node.Content().Body(),
		IsRoot:    node.IsRoot(),
		CreatedAt: node.CreatedAt().Format(time.RFC3339),
	}
	if !node.IsRoot() {
		view.ParentID = node.ParentID().String()
	}
	return view
}

func toNodeViews(nodes []*entities.Node) []queries.NodeView {
	views := make([]queries.NodeView, 0, len(nodes))
	for _, node := range nodes {
		views = append(views, toNodeView(node))
	}
	return views
}

func toAccountView(account *entities.Account) queries.AccountView {
	return queries.AccountView{
		ID:        account.ID(),
		Username:  account.Username(),
		Coins:     account.Coins(),
		Level:     account.Level(),
		Bio:       account.Bio(),
		CreatedAt: account.CreatedAt().Format(time.RFC3339),
	}
}

func toTransactionView(tx *entities.Transaction) queries.TransactionView {
	return queries.TransactionView{
		ID:          tx.ID(),
		SenderID:    tx.SenderID(),
		RecipientID: tx.RecipientID(),
		Amount:      tx.Amount().Coins(),
		Kind:        string(tx.Kind()),
		Timestamp:   tx.Timestamp().Format(time.RFC3339),
	}
}
