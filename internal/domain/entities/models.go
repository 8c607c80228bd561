package entities

// All returns every persisted model, in dependency order, for schema setup
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Issue{},
		&Note{},
		&ActionItem{},
		&VendorTicket{},
		&ZendeskTicket{},
		&Meeting{},
		&MeetingItem{},
		&EmailTemplate{},
		&EmailDraft{},
	}
}
