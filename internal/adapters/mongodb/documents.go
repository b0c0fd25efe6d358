package mongodb

import (
	"time"

	"peram-marketplace-service/internal/domain/bid"
	"peram-marketplace-service/internal/domain/category"
	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/user"

	"github.com/google/uuid"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Name         string    `bson:"name"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func fromUser(u *user.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) toDomain() *user.User {
	return &user.User{
		ID:           uuid.MustParse(d.ID),
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type categoryDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func fromCategory(c *category.Category) categoryDocument {
	return categoryDocument{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d categoryDocument) toDomain() *category.Category {
	return &category.Category{
		ID:          uuid.MustParse(d.ID),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type productDocument struct {
	ID             string    `bson:"_id"`
	Title          string    `bson:"title"`
	Description    string    `bson:"description"`
	CategoryID     string    `bson:"category_id"`
	SellerID       string    `bson:"seller_id"`
	StartingBid    float64   `bson:"starting_bid"`
	CurrentBid     float64   `bson:"current_bid"`
	AuctionEndTime time.Time `bson:"auction_end_time"`
	Images         []string  `bson:"images"`
	Status         string    `bson:"status"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func fromProduct(p *product.Product) productDocument {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productDocument{
		ID:             p.ID.String(),
		Title:          p.Title,
		Description:    p.Description,
		CategoryID:     p.CategoryID.String(),
		SellerID:       p.SellerID.String(),
		StartingBid:    p.StartingBid,
		CurrentBid:     p.CurrentBid,
		AuctionEndTime: p.AuctionEndTime,
		Images:         images,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (d productDocument) toDomain() *product.Product {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return &product.Product{
		ID:             uuid.MustParse(d.ID),
		Title:          d.Title,
		Description:    d.Description,
		CategoryID:     uuid.MustParse(d.CategoryID),
		SellerID:       uuid.MustParse(d.SellerID),
		StartingBid:    d.StartingBid,
		CurrentBid:     d.CurrentBid,
		AuctionEndTime: d.AuctionEndTime.UTC(),
		Images:         images,
		Status:         product.Status(d.Status),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

type bidDocument struct {
	ID        string    `bson:"_id"`
	ProductID string    `bson:"product_id"`
	BuyerID   string    `bson:"buyer_id"`
	Amount    float64   `bson:"amount"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func fromBid(b *bid.Bid) bidDocument {
	return bidDocument{
		ID:        b.ID.String(),
		ProductID: b.ProductID.String(),
		BuyerID:   b.BuyerID.String(),
		Amount:    b.Amount,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (d bidDocument) toDomain() *bid.Bid {
	return &bid.Bid{
		ID:        uuid.MustParse(d.ID),
		ProductID: uuid.MustParse(d.ProductID),
		BuyerID:   uuid.MustParse(d.BuyerID),
		Amount:    d.Amount,
		Status:    bid.Status(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
