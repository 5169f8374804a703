package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Request and response bodies, mirroring the schemas in api/openapi.yaml.

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CreatedResponse struct {
	ID openapi_types.UUID `json:"id"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Stop struct {
	Address string  `json:"address"`
	MapLink string  `json:"mapLink,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type QuoteRequest struct {
	Pickup    Point  `json:"pickup"`
	Dropoff   Point  `json:"dropoff"`
	IsExpress bool   `json:"isExpress"`
	Tier      string `json:"tier"`
}

type Quote struct {
	D1Fee            int64   `json:"d1Fee"`
	D2Fee            int64   `json:"d2Fee"`
	ExpressFee       int64   `json:"expressFee"`
	Total            int64   `json:"total"`
	D1Km             float64 `json:"d1Km"`
	D2Km             float64 `json:"d2Km"`
	EstimatedMinutes int     `json:"estimatedMinutes"`
	Estimated        bool    `json:"estimated"`
}

type NewOrder struct {
	SenderName    string `json:"senderName"`
	SenderContact string `json:"senderContact"`
	Pickup        Stop   `json:"pickup"`
	Dropoff       Stop   `json:"dropoff"`
	Tier          string `json:"tier"`
	CashAdvance   int64  `json:"cashAdvance"`
	COD           int64  `json:"cod"`
	Notes         string `json:"notes"`
}

type OrderSummary struct {
	ID                    openapi_types.UUID  `json:"id"`
	CreatedAt             time.Time           `json:"createdAt"`
	Status                string              `json:"status"`
	Tier                  string              `json:"tier"`
	SenderName            string              `json:"senderName"`
	PickupAddress         string              `json:"pickupAddress"`
	DropoffAddress        string              `json:"dropoffAddress"`
	CourierID             *openapi_types.UUID `json:"courierId"`
	Total                 int64               `json:"total"`
	IsCOD                 bool                `json:"isCod"`
	CODAmount             int64               `json:"codAmount"`
	CODCollected          bool                `json:"codCollected"`
	CashAdvance           int64               `json:"cashAdvance"`
	CashAdvanceReimbursed bool                `json:"cashAdvanceReimbursed"`
	Settled               bool                `json:"settled"`
}

type AuditEntry struct {
	Seq       int               `json:"seq"`
	Kind      string            `json:"kind"`
	At        time.Time         `json:"at"`
	ActorRole string            `json:"actorRole"`
	ActorID   string            `json:"actorId"`
	Metadata  map[string]string `json:"metadata"`
}

type OrderDetail struct {
	ID                    openapi_types.UUID  `json:"id"`
	CreatedAt             time.Time           `json:"createdAt"`
	Status                string              `json:"status"`
	Tier                  string              `json:"tier"`
	SenderName            string              `json:"senderName"`
	SenderContact         string              `json:"senderContact"`
	Pickup                Stop                `json:"pickup"`
	Dropoff               Stop                `json:"dropoff"`
	CourierID             *openapi_types.UUID `json:"courierId"`
	Fee                   Quote               `json:"fee"`
	IsCOD                 bool                `json:"isCod"`
	CODAmount             int64               `json:"codAmount"`
	CODCollected          bool                `json:"codCollected"`
	CashAdvance           int64               `json:"cashAdvance"`
	CashAdvanceReimbursed bool                `json:"cashAdvanceReimbursed"`
	Notes                 string              `json:"notes"`
	ProofPhotos           []string            `json:"proofPhotos"`
	Settled               bool                `json:"settled"`
	Version               int                 `json:"version"`
	AuditLog              []AuditEntry        `json:"auditLog"`
}

type TransitionRequest struct {
	TargetStatus string `json:"targetStatus"`
}

type AssignmentRequest struct {
	CourierID openapi_types.UUID `json:"courierId"`
}

type ProofRequest struct {
	PhotoURL string `json:"photoUrl"`
}

type NewCourier struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type AvailabilityRequest struct {
	Active *bool `json:"active"`
	Online *bool `json:"online"`
}

type Courier struct {
	ID         openapi_types.UUID `json:"id"`
	Name       string             `json:"name"`
	Contact    string             `json:"contact"`
	Active     bool               `json:"active"`
	Online     bool               `json:"online"`
	Location   *Point             `json:"location,omitempty"`
	LastSeenAt *time.Time         `json:"lastSeenAt"`
}

type Balance struct {
	CourierID      openapi_types.UUID `json:"courierId"`
	CODOutstanding int64              `json:"codOutstanding"`
	AdvanceOwed    int64              `json:"advanceOwed"`
	OpenOrders     int                `json:"openOrders"`
}

type Collected struct {
	Orders int   `json:"orders"`
	Total  int64 `json:"total"`
}

func quoteFromFee(fee order.Fee) Quote {
	return Quote{
		D1Fee:            fee.D1Fee(),
		D2Fee:            fee.D2Fee(),
		ExpressFee:       fee.ExpressFee(),
		Total:            fee.Total(),
		D1Km:             fee.D1Km(),
		D2Km:             fee.D2Km(),
		EstimatedMinutes: fee.EstimatedMinutes(),
		Estimated:        fee.IsEstimate(),
	}
}

func optionalID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func orderSummaryFromQuery(o queries.ListOrdersQueryResponse) OrderSummary {
	return OrderSummary{
		ID:                    o.ID.Bytes(),
		CreatedAt:             o.CreatedAt,
		Status:                o.Status.String(),
		Tier:                  o.Tier.String(),
		SenderName:            o.SenderName,
		PickupAddress:         o.PickupAddress,
		DropoffAddress:        o.DropoffAddress,
		CourierID:             optionalID(o.CourierID),
		Total:                 o.Total,
		IsCOD:                 o.IsCOD,
		CODAmount:             o.CODAmount,
		CODCollected:          o.CODCollected,
		CashAdvance:           o.CashAdvance,
		CashAdvanceReimbursed: o.Reimbursed,
		Settled:               o.Settled,
	}
}

func stopFromQuery(s queries.StopView) Stop {
	return Stop{Address: s.Address, MapLink: s.MapLink, Lat: s.Location.Lat(), Lng: s.Location.Lng()}
}

func orderDetailFromQuery(o queries.GetOrderQueryResponse) OrderDetail {
	audit := make([]AuditEntry, len(o.AuditLog))
	for i, e := range o.AuditLog {
		audit[i] = AuditEntry{
			Seq:       e.Seq,
			Kind:      string(e.Kind),
			At:        e.At,
			ActorRole: e.ActorRole.String(),
			ActorID:   e.ActorID,
			Metadata:  e.Metadata,
		}
	}

	return OrderDetail{
		ID:            o.ID.Bytes(),
		CreatedAt:     o.CreatedAt,
		Status:        o.Status.String(),
		Tier:          o.Tier.String(),
		SenderName:    o.SenderName,
		SenderContact: o.SenderContact,
		Pickup:        stopFromQuery(o.Pickup),
		Dropoff:       stopFromQuery(o.Dropoff),
		CourierID:     optionalID(o.CourierID),
		Fee: Quote{
			D1Fee:            o.Fee.D1Fee,
			D2Fee:            o.Fee.D2Fee,
			ExpressFee:       o.Fee.ExpressFee,
			Total:            o.Fee.Total,
			D1Km:             o.Fee.D1Km,
			D2Km:             o.Fee.D2Km,
			EstimatedMinutes: o.Fee.EstimatedMinutes,
			Estimated:        o.Fee.Estimated,
		},
		IsCOD:                 o.IsCOD,
		CODAmount:             o.CODAmount,
		CODCollected:          o.CODCollected,
		CashAdvance:           o.CashAdvance,
		CashAdvanceReimbursed: o.Reimbursed,
		Notes:                 o.Notes,
		ProofPhotos:           o.ProofPhotos,
		Settled:               o.Settled,
		Version:               o.Version,
		AuditLog:              audit,
	}
}

func courierFromQuery(c queries.GetAllCouriersQueryResponse) Courier {
	resp := Courier{
		ID:         c.ID.Bytes(),
		Name:       c.Name,
		Contact:    c.Contact,
		Active:     c.Active,
		Online:     c.Online,
		LastSeenAt: c.LastSeenAt,
	}
	if c.Location != nil {
		resp.Location = &Point{Lat: c.Location.Lat(), Lng: c.Location.Lng()}
	}
	return resp
}
