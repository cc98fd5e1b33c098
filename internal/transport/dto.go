package transport

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

// PatchProductRequest carries only the fields present in the request body.
type PatchProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	ImageURL    *string  `json:"image_url"`
	Category    *string  `json:"category"`
}

func (r PatchProductRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil && r.ImageURL == nil && r.Category == nil
}

type ProductFilter struct {
	Query    string
	Category string
	Sort     string
	Offset   int
	Limit    int
}

type CreateReviewRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Review    string `json:"review"     validate:"required"`
	Stars     int    `json:"stars"      validate:"required,min=1,max=5"`
}

type UpdateReviewRequest struct {
	Review string `json:"review" validate:"required"`
	Stars  int    `json:"stars"  validate:"required,min=1,max=5"`
}

type CreateShopRequest struct {
	Address   string   `json:"address"   validate:"required"`
	Phone     string   `json:"phone"`
	Latitude  *float64 `json:"latitude"  validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}
