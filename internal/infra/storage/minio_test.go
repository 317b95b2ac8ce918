package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://s3.local:9000/id-front/front/2025/03/a.jpg",
		ObjectURL("https", "s3.local:9000", "id-front", "front/2025/03/a.jpg"))
	assert.Equal(t, "http://minio/b/k", ObjectURL("", "minio", "b", "k"))
}
