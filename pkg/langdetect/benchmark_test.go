package langdetect

import (
	"testing"
)

func BenchmarkDetectGDScript(b *testing.B) {
	code := []byte(`extends Node2D

@export var speed := 200.0

func _process(delta):
	position.x += speed * delta
`)
	b.ResetTimer()
	for range b.N {
		Detect("", code)
	}
}

func BenchmarkDetectByExtension(b *testing.B) {
	code := []byte("class_name Enemy\nvar hp := 3\n")
	b.ResetTimer()
	for range b.N {
		Detect("enemy.gd", code)
	}
}

func BenchmarkDetectEmpty(b *testing.B) {
	code := []byte("")
	b.ResetTimer()
	for range b.N {
		Detect("", code)
	}
}
