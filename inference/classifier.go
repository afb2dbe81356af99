// Package inference wraps the pretrained retinal staging model. The model is
// loaded once at startup and shared read-only; individual predictions
// serialize on the interpreter. Failures never escape: a bad image or a
// failed invoke degrades to the sentinel prediction so one corrupt upload
// cannot abort a request pipeline.
package inference

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"
	tflite "github.com/tphakala/go-tflite"

	"retinascope/utils"
)

// InputSize Side length of the square input tensor.
const InputSize = 224

// Labels The fixed diagnostic stages, in the output-tensor order the model
// was trained with.
var Labels = []string{"Mild", "Moderate", "No_DR", "Proliferate_DR", "Severe"}

// Prediction The classifier verdict. Confidence is the softmax probability
// of the winning label on a 0-100 scale.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Sentinel The no-usable-result placeholder.
func Sentinel() Prediction {
	return Prediction{Label: "—", Confidence: 0.0}
}

// Classifier Holds the TFLite model and its interpreter.
type Classifier struct {
	model       *tflite.Model
	interpreter *tflite.Interpreter
	mu          sync.Mutex
}

// New Load the TFLite model at modelPath and allocate its tensors.
func New(modelPath string) (*Classifier, error) {
	model := tflite.NewModelFromFile(modelPath)
	if model == nil {
		return nil, fmt.Errorf("cannot load model from %s", modelPath)
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(runtime.NumCPU())

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		model.Delete()
		return nil, fmt.Errorf("cannot create interpreter for %s", modelPath)
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		model.Delete()
		return nil, fmt.Errorf("tensor allocation failed for %s", modelPath)
	}

	log.Info(fmt.Sprintf("Loaded retinal model from %s", modelPath))
	return &Classifier{model: model, interpreter: interpreter}, nil
}

// Close Release the interpreter and model.
func (c *Classifier) Close() {
	if c.interpreter != nil {
		c.interpreter.Delete()
	}
	if c.model != nil {
		c.model.Delete()
	}
}

// Predict Classify image bytes. Never fails: any decode or inference error
// is logged and mapped to the sentinel result.
func (c *Classifier) Predict(data []byte) Prediction {
	p, err := c.classify(data)
	if err != nil {
		log.Warn("prediction failed: ", err)
		return Sentinel()
	}
	return p
}

func (c *Classifier) classify(data []byte) (Prediction, error) {
	// Decode before touching the interpreter, corrupt bytes stop here.
	img, err := utils.DecodeAndResize(data, InputSize)
	if err != nil {
		return Prediction{}, fmt.Errorf("decode image: %w", err)
	}
	if c.interpreter == nil {
		return Prediction{}, fmt.Errorf("classifier not initialized")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	input := c.interpreter.GetInputTensor(0)
	if input == nil {
		return Prediction{}, fmt.Errorf("cannot get input tensor")
	}
	fillTensor(input.Float32s(), img)

	if status := c.interpreter.Invoke(); status != tflite.OK {
		return Prediction{}, fmt.Errorf("tensor invoke failed: %v", status)
	}

	output := c.interpreter.GetOutputTensor(0)
	if output == nil {
		return Prediction{}, fmt.Errorf("cannot get output tensor")
	}
	logits := make([]float32, len(Labels))
	copy(logits, output.Float32s())

	probs := softmax(logits)
	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return Prediction{Label: Labels[best], Confidence: probs[best] * 100}, nil
}

// softmax Normalize logits into probabilities, shifted by the max for
// numerical stability.
func softmax(logits []float32) []float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(float64(v - max))
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// fillTensor Write the image into the NHWC float input, channel values
// scaled to [0, 1].
func fillTensor(tensor []float32, img image.Image) {
	i := 0
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			tensor[i] = float32(r>>8) / 255.0
			tensor[i+1] = float32(g>>8) / 255.0
			tensor[i+2] = float32(b>>8) / 255.0
			i += 3
		}
	}
}
