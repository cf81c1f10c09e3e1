package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment stores metadata about a file the athlete attached to a
// workout completion (a photo, a GPX export). The actual file resides in
// object storage; only the key is kept here.
type Attachment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompletionID primitive.ObjectID `bson:"completionId" json:"completionId"` // Link back to the completion
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`             // Link to the athlete who uploaded
	S3ObjectKey  string             `bson:"s3ObjectKey" json:"-"`             // The unique key (path/filename) in the bucket - internal use
	FileName     string             `bson:"fileName" json:"fileName"`         // Original filename provided by the client
	ContentType  string             `bson:"contentType" json:"contentType"`   // MIME type (e.g., "image/jpeg")
	Size         int64              `bson:"size" json:"size"`                 // File size in bytes
	UploadedAt   time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
