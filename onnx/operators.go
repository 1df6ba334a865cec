package onnx

import "github.com/graphcraft/onnx-builder/internal/protos"

// The operator table: the closed set of opcodes the builder can emit.
// Default-domain entries follow opset 13; the SVM entries follow ai.onnx.ml
// version 1. Each declaration is validated at package init (newOperator
// panics on duplicate attribute names).

var (
	// OpIdentity copies its input unchanged.
	OpIdentity = newOperator("Identity", 1, 0, 1)

	// OpConcat concatenates any number of tensors along a mandatory axis.
	OpConcat = newOperator("Concat", VariadicInput, 0, 1,
		Attribute{Name: "axis", Type: protos.AttributeProto_INT, Mandatory: true})

	// OpConstantOfShape fills the shape given by its input with a constant,
	// zero by default.
	OpConstantOfShape = newOperator("ConstantOfShape", 1, 0, 1,
		Attribute{Name: "value", Type: protos.AttributeProto_TENSOR})

	// Elementwise binary arithmetic.
	OpAdd = newOperator("Add", 2, 0, 1)
	OpSub = newOperator("Sub", 2, 0, 1)
	OpMul = newOperator("Mul", 2, 0, 1)
	OpDiv = newOperator("Div", 2, 0, 1)
	OpPow = newOperator("Pow", 2, 0, 1)

	// Elementwise comparison.
	OpEqual   = newOperator("Equal", 2, 0, 1)
	OpGreater = newOperator("Greater", 2, 0, 1)
	OpLess    = newOperator("Less", 2, 0, 1)

	// Elementwise unary.
	OpNeg     = newOperator("Neg", 1, 0, 1)
	OpSqrt    = newOperator("Sqrt", 1, 0, 1)
	OpExp     = newOperator("Exp", 1, 0, 1)
	OpLog     = newOperator("Log", 1, 0, 1)
	OpTanh    = newOperator("Tanh", 1, 0, 1)
	OpSigmoid = newOperator("Sigmoid", 1, 0, 1)

	// OpSoftmax and OpHardmax normalize along an axis (default -1).
	OpSoftmax = newOperator("Softmax", 1, 0, 1,
		Attribute{Name: "axis", Type: protos.AttributeProto_INT})
	OpHardmax = newOperator("Hardmax", 1, 0, 1,
		Attribute{Name: "axis", Type: protos.AttributeProto_INT})

	// OpCast converts the element type; "to" is a TensorProto_DataType value.
	OpCast = newOperator("Cast", 1, 0, 1,
		Attribute{Name: "to", Type: protos.AttributeProto_INT, Mandatory: true})

	// OpGather indexes into the first input along an axis.
	OpGather = newOperator("Gather", 2, 0, 1,
		Attribute{Name: "axis", Type: protos.AttributeProto_INT})

	// Variadic elementwise aggregations.
	OpSum  = newOperator("Sum", VariadicInput, 0, 1)
	OpMin  = newOperator("Min", VariadicInput, 0, 1)
	OpMax  = newOperator("Max", VariadicInput, 0, 1)
	OpMean = newOperator("Mean", VariadicInput, 0, 1)

	// Reductions. In opset 13 ReduceSum takes its axes as an optional second
	// input; the other reductions still declare axes as an attribute.
	OpReduceMean = newOperator("ReduceMean", 1, 0, 1,
		Attribute{Name: "axes", Type: protos.AttributeProto_INTS},
		Attribute{Name: "keepdims", Type: protos.AttributeProto_INT})
	OpReduceMin = newOperator("ReduceMin", 1, 0, 1,
		Attribute{Name: "axes", Type: protos.AttributeProto_INTS},
		Attribute{Name: "keepdims", Type: protos.AttributeProto_INT})
	OpReduceMax = newOperator("ReduceMax", 1, 0, 1,
		Attribute{Name: "axes", Type: protos.AttributeProto_INTS},
		Attribute{Name: "keepdims", Type: protos.AttributeProto_INT})
	OpReduceSum = newOperator("ReduceSum", 1, 1, 1,
		Attribute{Name: "keepdims", Type: protos.AttributeProto_INT},
		Attribute{Name: "noop_with_empty_axes", Type: protos.AttributeProto_INT})

	// OpUnsqueeze inserts size-1 axes; axes are a second input in opset 13.
	OpUnsqueeze = newOperator("Unsqueeze", 2, 0, 1)

	// OpGemm is the general matrix multiply alpha*A'*B' + beta*C.
	OpGemm = newOperator("Gemm", 2, 1, 1,
		Attribute{Name: "alpha", Type: protos.AttributeProto_FLOAT},
		Attribute{Name: "beta", Type: protos.AttributeProto_FLOAT},
		Attribute{Name: "transA", Type: protos.AttributeProto_INT},
		Attribute{Name: "transB", Type: protos.AttributeProto_INT})

	// OpWhere selects elementwise between its second and third input.
	OpWhere = newOperator("Where", 3, 0, 1)

	// OpSVMClassifier is the ai.onnx.ml SVM classifier. It emits both the
	// predicted label and the per-class scores.
	OpSVMClassifier = newMLOperator("SVMClassifier", 1, 0, 2,
		Attribute{Name: "classlabels_ints", Type: protos.AttributeProto_INTS},
		Attribute{Name: "classlabels_strings", Type: protos.AttributeProto_STRINGS},
		Attribute{Name: "coefficients", Type: protos.AttributeProto_FLOATS, Mandatory: true},
		Attribute{Name: "kernel_params", Type: protos.AttributeProto_FLOATS},
		Attribute{Name: "kernel_type", Type: protos.AttributeProto_STRING},
		Attribute{Name: "post_transform", Type: protos.AttributeProto_STRING},
		Attribute{Name: "prob_a", Type: protos.AttributeProto_FLOATS},
		Attribute{Name: "prob_b", Type: protos.AttributeProto_FLOATS},
		Attribute{Name: "rho", Type: protos.AttributeProto_FLOATS, Mandatory: true},
		Attribute{Name: "support_vectors", Type: protos.AttributeProto_FLOATS},
		Attribute{Name: "vectors_per_class", Type: protos.AttributeProto_INTS})

	// OpSVMRegressor is the ai.onnx.ml SVM regressor.
	OpSVMRegressor = newMLOperator("SVMRegressor", 1, 0, 1,
		Attribute{Name: "coefficients", Type: protos.AttributeProto_FLOATS, Mandatory: true},
		Attribute{Name: "kernel_params", Type: protos.AttributeProto_FLOATS},
		Attribute{Name: "kernel_type", Type: protos.AttributeProto_STRING},
		Attribute{Name: "n_supports", Type: protos.AttributeProto_INT},
		Attribute{Name: "one_class", Type: protos.AttributeProto_INT},
		Attribute{Name: "post_transform", Type: protos.AttributeProto_STRING},
		Attribute{Name: "rho", Type: protos.AttributeProto_FLOATS, Mandatory: true},
		Attribute{Name: "support_vectors", Type: protos.AttributeProto_FLOATS})
)

// RegisteredOperators lists every operator in the table, in a stable order.
var RegisteredOperators = []*Operator{
	OpIdentity, OpConcat, OpConstantOfShape,
	OpAdd, OpSub, OpMul, OpDiv, OpPow,
	OpEqual, OpGreater, OpLess,
	OpNeg, OpSqrt, OpExp, OpLog, OpTanh, OpSigmoid,
	OpSoftmax, OpHardmax, OpCast, OpGather,
	OpSum, OpMin, OpMax, OpMean,
	OpReduceMean, OpReduceMin, OpReduceMax, OpReduceSum,
	OpUnsqueeze, OpGemm, OpWhere,
	OpSVMClassifier, OpSVMRegressor,
}
